package dialog

// State is the conversation controller's current mode. Exactly one state is
// active per session; [StateIdle] is both the initial state and where every
// finished sub-dialogue returns.
type State string

const (
	StateIdle                       State = "idle"
	StateAwaitingName               State = "awaiting_name"
	StateAwaitingDates              State = "awaiting_dates"
	StateAwaitingRoomSelection      State = "awaiting_room_selection"
	StateAwaitingReservationConfirm State = "awaiting_reservation_confirm"
	StateAwaitingRoomNumber         State = "awaiting_room_number"
	StateAwaitingRoomNumberCancel   State = "awaiting_room_number_cancel"
	StateAwaitingEmergencyRoom      State = "awaiting_emergency_room"
	StateAwaitingLostItem           State = "awaiting_lost_item"
	StateAwaitingContactPhone       State = "awaiting_contact_phone"
	StateAwaitingExtraInfo          State = "awaiting_extra_info"
	StateAwaitingExtraInfoSpa       State = "awaiting_extra_info_spa"
	StateAwaitingReservationEdit    State = "awaiting_reservation_edit"
	StateAwaitingCancelConfirm      State = "awaiting_cancel_confirm"
)

// AllStates returns every state in declaration order.
func AllStates() []State {
	return []State{
		StateIdle,
		StateAwaitingName,
		StateAwaitingDates,
		StateAwaitingRoomSelection,
		StateAwaitingReservationConfirm,
		StateAwaitingRoomNumber,
		StateAwaitingRoomNumberCancel,
		StateAwaitingEmergencyRoom,
		StateAwaitingLostItem,
		StateAwaitingContactPhone,
		StateAwaitingExtraInfo,
		StateAwaitingExtraInfoSpa,
		StateAwaitingReservationEdit,
		StateAwaitingCancelConfirm,
	}
}

// IsValid reports whether s is one of the declared states.
func (s State) IsValid() bool {
	switch s {
	case StateIdle, StateAwaitingName, StateAwaitingDates, StateAwaitingRoomSelection,
		StateAwaitingReservationConfirm, StateAwaitingRoomNumber, StateAwaitingRoomNumberCancel,
		StateAwaitingEmergencyRoom, StateAwaitingLostItem, StateAwaitingContactPhone,
		StateAwaitingExtraInfo, StateAwaitingExtraInfoSpa, StateAwaitingReservationEdit,
		StateAwaitingCancelConfirm:
		return true
	default:
		return false
	}
}

// Waiting reports whether the next turn is consumed by a state handler
// instead of the classifier.
func (s State) Waiting() bool {
	return s != StateIdle && s.IsValid()
}

func (s State) String() string {
	return string(s)
}
