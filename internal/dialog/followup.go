package dialog

import (
	"fmt"

	"github.com/MrWong99/paraiso/internal/catalog"
)

// Step is what a follow-up does to the conversation: the prompts to show,
// the state to enter and, for menus, the options to remember.
type Step struct {
	Prompts    []string
	Target     State
	OptionsKey Key
	Options    []string
}

// PlanFollowup maps a follow-up descriptor to its [Step]. It returns false for
// a nil spec, an unknown kind or a menu without options; the conversation then
// simply stays idle.
func PlanFollowup(spec *catalog.FollowupSpec) (Step, bool) {
	if spec == nil {
		return Step{}, false
	}
	switch spec.Kind {
	case catalog.FollowupAskName:
		return Step{Prompts: []string{msgAskName}, Target: StateAwaitingName}, true
	case catalog.FollowupAskDates:
		return Step{Prompts: []string{msgAskDates, msgAskDatesHint}, Target: StateAwaitingDates}, true
	case catalog.FollowupAskRoomNumber:
		return Step{Prompts: []string{msgAskRoomNumber}, Target: StateAwaitingRoomNumber}, true
	case catalog.FollowupAskRoomNumberCancel:
		return Step{Prompts: []string{msgAskRoomNumberCancel}, Target: StateAwaitingRoomNumberCancel}, true
	case catalog.FollowupAskRoomEmergency:
		return Step{Prompts: []string{msgAskRoomEmergency}, Target: StateAwaitingEmergencyRoom}, true
	case catalog.FollowupAskLostItem:
		return Step{Prompts: []string{msgAskLostItem}, Target: StateAwaitingLostItem}, true
	case catalog.FollowupOfferMoreInfo:
		if len(spec.Options) == 0 {
			return Step{}, false
		}
		return Step{
			Prompts:    menuLines(msgMenuHeader, spec.Options),
			Target:     StateAwaitingExtraInfo,
			OptionsKey: KeyExtraOptions,
			Options:    spec.Options,
		}, true
	case catalog.FollowupOfferMoreInfoSpa:
		if len(spec.Options) == 0 {
			return Step{}, false
		}
		return Step{
			Prompts:    menuLines(msgMenuHeaderSpa, spec.Options),
			Target:     StateAwaitingExtraInfoSpa,
			OptionsKey: KeyExtraOptionsSpa,
			Options:    spec.Options,
		}, true
	default:
		return Step{}, false
	}
}

// menuLines renders a numbered menu under header.
func menuLines(header string, options []string) []string {
	lines := make([]string, 0, len(options)+2)
	lines = append(lines, header)
	for i, opt := range options {
		lines = append(lines, fmt.Sprintf(msgMenuItem, i+1, opt))
	}
	return append(lines, msgMenuHint)
}
