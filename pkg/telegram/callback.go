package telegram

import "strings"

// ActionKind tags a parsed callback identifier.
type ActionKind int

const (
	ActionUnknown ActionKind = iota
	ActionQuickNewChat
	ActionQuickLastChat
	ActionQuickBuyCredits
	ActionMenuSection
	ActionMenuHelp
	ActionMenuBackMain
	ActionCredits
	ActionPayment
	ActionHistory
	ActionSettings
	ActionLanguage
	ActionModel
	ActionMode
	ActionOnboarding
	ActionConfirmImage
	ActionConfirmDoc
	ActionConfirmPhoto
	ActionConfirmMessage
	ActionCancelOperation
	ActionConfirmOperation
)

// Action is a callback identifier parsed once at the update boundary.
// Arg holds the suffix after the matched prefix.
type Action struct {
	Kind ActionKind
	Arg  string
	Raw  string
}

// Metric label per action kind.
func (k ActionKind) String() string {
	switch k {
	case ActionQuickNewChat:
		return "quick_new_chat"
	case ActionQuickLastChat:
		return "quick_last_chat"
	case ActionQuickBuyCredits:
		return "quick_buy_credits"
	case ActionMenuSection:
		return "menu_section"
	case ActionMenuHelp:
		return "menu_help"
	case ActionMenuBackMain:
		return "menu_back_main"
	case ActionCredits:
		return "credits"
	case ActionPayment:
		return "payment"
	case ActionHistory:
		return "history"
	case ActionSettings:
		return "settings"
	case ActionLanguage:
		return "language"
	case ActionModel:
		return "model"
	case ActionMode:
		return "mode"
	case ActionOnboarding:
		return "onboarding"
	case ActionConfirmImage:
		return "confirm_image"
	case ActionConfirmDoc:
		return "confirm_doc"
	case ActionConfirmPhoto:
		return "confirm_photo"
	case ActionConfirmMessage:
		return "confirm_message"
	case ActionCancelOperation:
		return "cancel_operation"
	case ActionConfirmOperation:
		return "confirm_operation"
	default:
		return "unknown"
	}
}

// ParseAction classifies a raw callback identifier. Checks run from the
// most specific pattern down, so confirm_doc_* never falls through to
// the generic confirm_operation_* family.
func ParseAction(data string) Action {
	a := Action{Raw: data}

	switch data {
	case "quick_new_chat":
		a.Kind = ActionQuickNewChat
		return a
	case "quick_last_chat":
		a.Kind = ActionQuickLastChat
		return a
	case "quick_buy_credits":
		a.Kind = ActionQuickBuyCredits
		return a
	case "menu_help":
		a.Kind = ActionMenuHelp
		return a
	case "menu_back_main":
		a.Kind = ActionMenuBackMain
		return a
	case "confirm_message":
		a.Kind = ActionConfirmMessage
		return a
	case "cancel_operation":
		a.Kind = ActionCancelOperation
		return a
	}

	prefixes := []struct {
		prefix string
		kind   ActionKind
	}{
		{"menu_section_", ActionMenuSection},
		{"menu_credits_", ActionCredits},
		{"credits_", ActionCredits},
		{"payment_", ActionPayment},
		{"buy_package_", ActionPayment},
		{"history_", ActionHistory},
		{"settings_", ActionSettings},
		{"start_lang_", ActionLanguage},
		{"model_", ActionModel},
		{"mode_", ActionMode},
		{"onboarding_", ActionOnboarding},
		{"confirm_image_", ActionConfirmImage},
		{"confirm_doc_", ActionConfirmDoc},
		{"confirm_photo_", ActionConfirmPhoto},
		{"confirm_operation_", ActionConfirmOperation},
	}
	for _, p := range prefixes {
		if strings.HasPrefix(data, p.prefix) {
			a.Kind = p.kind
			a.Arg = strings.TrimPrefix(data, p.prefix)
			return a
		}
	}

	return a
}
