package telegram

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseAction(t *testing.T) {
	tests := []struct {
		data string
		kind ActionKind
		arg  string
	}{
		{"quick_new_chat", ActionQuickNewChat, ""},
		{"quick_last_chat", ActionQuickLastChat, ""},
		{"quick_buy_credits", ActionQuickBuyCredits, ""},
		{"menu_section_chat_modes", ActionMenuSection, "chat_modes"},
		{"menu_section_credits", ActionMenuSection, "credits"},
		{"menu_section_image", ActionMenuSection, "image"},
		{"menu_help", ActionMenuHelp, ""},
		{"menu_back_main", ActionMenuBackMain, ""},
		{"menu_credits_buy", ActionCredits, "buy"},
		{"credits_check", ActionCredits, "check"},
		{"payment_stars", ActionPayment, "stars"},
		{"buy_package_2", ActionPayment, "2"},
		{"history_new", ActionHistory, "new"},
		{"settings_model", ActionSettings, "model"},
		{"start_lang_pl", ActionLanguage, "pl"},
		{"model_gpt-4o", ActionModel, "gpt-4o"},
		{"mode_creative_writer", ActionMode, "creative_writer"},
		{"onboarding_done", ActionOnboarding, "done"},
		{"confirm_image_generate", ActionConfirmImage, "generate"},
		{"confirm_doc_analyze", ActionConfirmDoc, "analyze"},
		{"confirm_doc_translate", ActionConfirmDoc, "translate"},
		{"confirm_photo_translate", ActionConfirmPhoto, "translate"},
		{"confirm_message", ActionConfirmMessage, ""},
		{"cancel_operation", ActionCancelOperation, ""},
		{"confirm_operation_document_translate", ActionConfirmOperation, "document_translate"},
		{"something_else", ActionUnknown, ""},
		{"", ActionUnknown, ""},
	}
	for _, tt := range tests {
		t.Run(tt.data, func(t *testing.T) {
			a := ParseAction(tt.data)
			assert.Equal(t, tt.kind, a.Kind, "kind for %q", tt.data)
			assert.Equal(t, tt.arg, a.Arg, "arg for %q", tt.data)
			assert.Equal(t, tt.data, a.Raw)
		})
	}
}

// The confirm_* family must resolve most-specific-first: a document
// confirmation never falls through to the generic operation family.
func TestParseActionConfirmPriority(t *testing.T) {
	assert.Equal(t, ActionConfirmDoc, ParseAction("confirm_doc_analyze").Kind)
	assert.Equal(t, ActionConfirmPhoto, ParseAction("confirm_photo_analyze").Kind)
	assert.Equal(t, ActionConfirmImage, ParseAction("confirm_image_x").Kind)
	assert.Equal(t, ActionConfirmOperation, ParseAction("confirm_operation_photo_analyze").Kind)
}
