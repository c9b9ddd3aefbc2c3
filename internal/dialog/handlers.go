package dialog

import (
	"context"
	"slices"
	"strings"
)

// handle offers the turn to the active state's handler. It returns false only
// when the handler gave the text back for classification, in which case the
// session is already idle.
func (s *Session) handle(ctx context.Context, t *turn) bool {
	switch s.state {
	case StateIdle:
		return false
	case StateAwaitingName:
		s.onName(ctx, t)
	case StateAwaitingDates:
		s.onDates(ctx, t)
	case StateAwaitingRoomSelection:
		s.onRoomSelection(ctx, t)
	case StateAwaitingReservationConfirm:
		s.onReservationConfirm(ctx, t)
	case StateAwaitingRoomNumber:
		s.onRoomNumber(ctx, t)
	case StateAwaitingRoomNumberCancel:
		s.onRoomNumberCancel(ctx, t)
	case StateAwaitingEmergencyRoom:
		s.onEmergencyRoom(ctx, t)
	case StateAwaitingLostItem:
		s.onLostItem(ctx, t)
	case StateAwaitingContactPhone:
		s.onContactPhone(ctx, t)
	case StateAwaitingExtraInfo:
		return s.onExtraInfo(ctx, t)
	case StateAwaitingExtraInfoSpa:
		s.onExtraInfoSpa(ctx, t)
	case StateAwaitingReservationEdit:
		s.onReservationEdit(ctx, t)
	case StateAwaitingCancelConfirm:
		s.onCancelConfirm(ctx, t)
	default:
		// Unreachable while every State has a case above.
		t.say(msgUnknownStateReset)
		s.transition(ctx, StateIdle)
	}
	return true
}

func (s *Session) onName(ctx context.Context, t *turn) {
	if isNegative(t.text) {
		t.say(msgNameDeclined)
		s.transition(ctx, StateIdle)
		return
	}
	name := titleName(t.raw)
	if name == "" {
		t.say(msgAskName)
		return
	}
	s.ctx.set(KeyUserName, name)
	t.sayf(msgNiceToMeet, name)
	s.transition(ctx, StateIdle)
}

func (s *Session) onDates(ctx context.Context, t *turn) {
	if isNegative(t.text) {
		t.say(msgDatesCancelled)
		s.transition(ctx, StateIdle)
		return
	}
	// Short words such as "al" or "del" may have been corrected into
	// catalog vocabulary, so the typed text is checked too.
	if !isDate(t.text) && !isDate(t.raw) {
		t.say(datesHelp()...)
		return
	}
	s.ctx.set(KeyDates, t.raw)
	t.sayf(msgDatesChecking, t.raw)
	t.say(msgDatesFound)
	t.say(roomListing()...)
	t.say(msgDatesInterested)
	s.transition(ctx, StateAwaitingRoomSelection)
}

func (s *Session) onRoomSelection(ctx context.Context, t *turn) {
	if isNegative(t.text) {
		t.say(msgRoomCancelled)
		s.transition(ctx, StateIdle)
		return
	}
	if r, ok := selectRoom(t.text); ok {
		s.ctx.set(KeyRoom, r.name)
		t.say(r.pitch, msgRoomProceed)
		s.transition(ctx, StateAwaitingReservationConfirm)
		return
	}
	if isAffirmative(t.text) {
		t.say(msgRoomWhich)
		t.say(roomChoices()...)
		return
	}
	t.say(msgRoomUnknown)
	t.say(roomHelp()...)
}

// selectRoom returns the first room, most specific first, named in text.
func selectRoom(text string) (room, bool) {
	words := strings.FieldsFunc(fold(text), func(r rune) bool {
		return !(r >= 'a' && r <= 'z')
	})
	for _, r := range rooms {
		for _, kw := range r.keywords {
			if slices.Contains(words, kw) {
				return r, true
			}
		}
	}
	return room{}, false
}

func (s *Session) onReservationConfirm(ctx context.Context, t *turn) {
	if isNegative(t.text) {
		t.say(msgReservationDeclined)
		s.transition(ctx, StateIdle)
		return
	}
	if !isConfirmation(t.text) {
		t.say(msgReservationReprompt)
		return
	}

	code := reservationCode(s.engine.rand)
	s.ctx.set(KeyReservation, code)
	s.engine.metrics.RecordReservation(ctx, "created")

	roomName, ok := s.ctx.Get(KeyRoom)
	if !ok {
		roomName = "N/A"
	}
	dates, ok := s.ctx.Get(KeyDates)
	if !ok {
		dates = "N/A"
	}
	t.say(msgReservationConfirmed)
	t.sayf(msgReservationCode, code)
	t.sayf(msgReservationRoom, roomName)
	t.sayf(msgReservationDates, dates)
	s.transition(ctx, StateIdle)
}

func (s *Session) onRoomNumber(ctx context.Context, t *turn) {
	if isNegative(t.text) {
		t.say(msgReportCancelled)
		s.transition(ctx, StateIdle)
		return
	}
	num, ok := firstNumber(t.text)
	if !ok {
		t.say(msgRoomNumberInvalid, msgRoomNumberOrNo)
		return
	}
	t.sayf(msgMaintenanceLogged, num)
	t.say(msgMaintenanceETA)
	s.transition(ctx, StateIdle)
}

func (s *Session) onRoomNumberCancel(ctx context.Context, t *turn) {
	if isNegative(t.text) {
		t.say(msgServiceKept)
		s.transition(ctx, StateIdle)
		return
	}
	num, ok := firstNumber(t.text)
	if !ok {
		t.say(msgRoomNumberInvalid, msgRoomNumberOrNo)
		return
	}
	t.sayf(msgServiceCancelled, num)
	s.transition(ctx, StateIdle)
}

// onEmergencyRoom looks for the room number before negation: "no puedo
// respirar, habitación 305" must still dispatch help.
func (s *Session) onEmergencyRoom(ctx context.Context, t *turn) {
	if num, ok := firstNumber(t.text); ok {
		t.sayf(msgEmergencyDispatched, num)
		t.say(msgEmergencyCall)
		s.transition(ctx, StateIdle)
		return
	}
	if isNegative(t.text) {
		t.say(msgEmergencyDeclined)
		s.transition(ctx, StateIdle)
		return
	}
	t.say(msgEmergencyNeedRoom, msgRoomNumberOrNo)
}

func (s *Session) onLostItem(ctx context.Context, t *turn) {
	if isNegative(t.text) {
		t.say(msgReportCancelled)
		s.transition(ctx, StateIdle)
		return
	}
	if t.raw == "" {
		t.say(msgLostItemEmpty)
		return
	}
	s.ctx.set(KeyLostItem, t.raw)
	t.sayf(msgLostItemLogged, t.raw)
	t.say(msgLostItemAskPhone)
	s.transition(ctx, StateAwaitingContactPhone)
}

func (s *Session) onContactPhone(ctx context.Context, t *turn) {
	if isNegative(t.text) {
		t.say(msgPhoneDeclined)
		s.transition(ctx, StateIdle)
		return
	}
	phone, ok := findPhone(t.text)
	if !ok {
		t.say(msgPhoneInvalid, msgPhoneInvalidHint)
		return
	}
	s.ctx.set(KeyPhone, phone)
	t.say(msgPhoneSaved)
	s.transition(ctx, StateIdle)
}

// onExtraInfo runs the general information menu. Before anything else the
// text is classified; an intent other than the menu's own tags closes the
// menu and hands the text back for a fresh idle turn.
func (s *Session) onExtraInfo(ctx context.Context, t *turn) bool {
	if rule, ok := s.engine.classifier.Match(t.text); ok && !s.menuReserved(rule.Tag) {
		s.transition(ctx, StateIdle)
		return false
	}
	s.menu(ctx, t, KeyExtraOptions, msgMenuHeader, hotelDetails)
	return true
}

func (s *Session) onExtraInfoSpa(ctx context.Context, t *turn) {
	s.menu(ctx, t, KeyExtraOptionsSpa, msgMenuHeaderSpa, spaDetails)
}

func (s *Session) menuReserved(tag string) bool {
	return tag == s.menuTag || slices.Contains(s.engine.menuReserved, tag)
}

// menu is the shared loop of both information menus: it stays active until
// the guest leaves with an exit word or a negation.
func (s *Session) menu(ctx context.Context, t *turn, key Key, header string, table []detail) {
	if isMenuExit(t.text) || isNegative(t.text) {
		t.say(msgMenuExit)
		s.transition(ctx, StateIdle)
		return
	}

	options := s.ctx.Options(key)
	// Option labels are matched as typed first; the corrector may have bent
	// a label such as "Sauna" towards an unrelated catalog word.
	choice, ok := resolveOption(t.raw, options)
	if !ok {
		choice, ok = resolveOption(t.text, options)
	}
	if !ok {
		t.say(msgMenuUnknown)
		t.say(menuLines(header, options)...)
		return
	}

	if text, ok := lookupDetail(table, choice); ok {
		t.say(text)
	} else {
		t.sayf(msgMenuFallback, choice)
	}
	t.say(menuLines(header, options)...)
}

// resolveOption maps the guest's reply to a menu option: a leading number is
// a 1-based index, otherwise the first option whose folded label occurs in
// the folded reply wins.
func resolveOption(text string, options []string) (string, bool) {
	if n, ok := leadingNumber(text); ok && n >= 1 && n <= len(options) {
		return options[n-1], true
	}
	folded := fold(text)
	for _, opt := range options {
		label := fold(strings.TrimSpace(opt))
		if label != "" && strings.Contains(folded, label) {
			return opt, true
		}
	}
	return "", false
}

func (s *Session) onReservationEdit(ctx context.Context, t *turn) {
	code := s.reservation()
	switch lower := strings.ToLower(t.text); {
	case isNegative(t.text):
		t.sayf(msgEditNone, code)
	case strings.Contains(lower, "fechas"):
		t.sayf(msgEditDates, code)
	case strings.Contains(lower, "noche"):
		t.sayf(msgEditNight, code)
	default:
		t.sayf(msgEditNote, code, t.raw)
	}
	s.transition(ctx, StateIdle)
}

func (s *Session) onCancelConfirm(ctx context.Context, t *turn) {
	code := s.reservation()
	if isConfirmation(t.text) {
		s.ctx.delete(KeyReservation)
		s.engine.metrics.RecordReservation(ctx, "cancelled")
		t.sayf(msgCancelDone, code)
	} else {
		t.sayf(msgCancelKept, code)
	}
	s.transition(ctx, StateIdle)
}
