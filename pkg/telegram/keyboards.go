package telegram

import (
	"fmt"
	"strconv"

	"github.com/go-telegram/bot/models"

	"github.com/kdziekansky/telegram3333/pkg/ai"
	"github.com/kdziekansky/telegram3333/pkg/credits"
	"github.com/kdziekansky/telegram3333/pkg/i18n"
)

// languageKeyboard returns the interface language picker shown on /start
func languageKeyboard() models.ReplyMarkup {
	var rows [][]models.InlineKeyboardButton
	for _, l := range i18n.Languages {
		rows = append(rows, []models.InlineKeyboardButton{
			{Text: l.Name, CallbackData: "start_lang_" + l.Code},
		})
	}
	return &models.InlineKeyboardMarkup{InlineKeyboard: rows}
}

// mainMenuKeyboard returns the main menu with section and quick-action rows
func mainMenuKeyboard(lang string) models.ReplyMarkup {
	return &models.InlineKeyboardMarkup{
		InlineKeyboard: [][]models.InlineKeyboardButton{
			{
				{Text: i18n.Get(lang, "btn_chat_modes"), CallbackData: "menu_section_chat_modes"},
				{Text: i18n.Get(lang, "btn_credits"), CallbackData: "menu_section_credits"},
			},
			{
				{Text: i18n.Get(lang, "btn_history"), CallbackData: "menu_section_history"},
				{Text: i18n.Get(lang, "btn_settings"), CallbackData: "menu_section_settings"},
			},
			{
				{Text: i18n.Get(lang, "btn_image"), CallbackData: "menu_section_image"},
				{Text: i18n.Get(lang, "btn_help"), CallbackData: "menu_help"},
			},
			{
				{Text: i18n.Get(lang, "btn_new_chat"), CallbackData: "quick_new_chat"},
				{Text: i18n.Get(lang, "btn_last_chat"), CallbackData: "quick_last_chat"},
				{Text: i18n.Get(lang, "btn_buy_credits"), CallbackData: "quick_buy_credits"},
			},
		},
	}
}

// backKeyboard returns a single button leading to the given callback
func backKeyboard(lang, callback string) models.ReplyMarkup {
	return &models.InlineKeyboardMarkup{
		InlineKeyboard: [][]models.InlineKeyboardButton{
			{
				{Text: i18n.Get(lang, "btn_back"), CallbackData: callback},
			},
		},
	}
}

// backToMainKeyboard returns the recovery keyboard for unknown callbacks
func backToMainKeyboard(lang string) models.ReplyMarkup {
	return &models.InlineKeyboardMarkup{
		InlineKeyboard: [][]models.InlineKeyboardButton{
			{
				{Text: i18n.Get(lang, "btn_back_main"), CallbackData: "menu_back_main"},
			},
		},
	}
}

// confirmOperationKeyboard returns confirm/cancel buttons bound to a
// named pending operation
func confirmOperationKeyboard(lang, name string) models.ReplyMarkup {
	return &models.InlineKeyboardMarkup{
		InlineKeyboard: [][]models.InlineKeyboardButton{
			{
				{Text: i18n.Get(lang, "btn_confirm"), CallbackData: "confirm_operation_" + name},
				{Text: i18n.Get(lang, "btn_cancel"), CallbackData: "cancel_operation"},
			},
		},
	}
}

// confirmMessageKeyboard returns confirm/cancel buttons for a gated chat message
func confirmMessageKeyboard(lang string) models.ReplyMarkup {
	return &models.InlineKeyboardMarkup{
		InlineKeyboard: [][]models.InlineKeyboardButton{
			{
				{Text: i18n.Get(lang, "btn_confirm"), CallbackData: "confirm_message"},
				{Text: i18n.Get(lang, "btn_cancel"), CallbackData: "cancel_operation"},
			},
		},
	}
}

// documentOptionsKeyboard offers analyze/translate for an uploaded document
func documentOptionsKeyboard(lang string) models.ReplyMarkup {
	return &models.InlineKeyboardMarkup{
		InlineKeyboard: [][]models.InlineKeyboardButton{
			{
				{Text: fmt.Sprintf("%s (%d)", i18n.Get(lang, "btn_analyze"), credits.CostDocumentAnalyze), CallbackData: "confirm_doc_analyze"},
				{Text: fmt.Sprintf("%s (%d)", i18n.Get(lang, "btn_translate"), credits.CostDocumentTranslate), CallbackData: "confirm_doc_translate"},
			},
			{
				{Text: i18n.Get(lang, "btn_cancel"), CallbackData: "cancel_operation"},
			},
		},
	}
}

// photoOptionsKeyboard offers analyze/translate for an uploaded photo
func photoOptionsKeyboard(lang string) models.ReplyMarkup {
	return &models.InlineKeyboardMarkup{
		InlineKeyboard: [][]models.InlineKeyboardButton{
			{
				{Text: fmt.Sprintf("%s (%d)", i18n.Get(lang, "btn_analyze"), credits.CostPhotoAnalyze), CallbackData: "confirm_photo_analyze"},
				{Text: fmt.Sprintf("%s (%d)", i18n.Get(lang, "btn_translate"), credits.CostPhotoTranslate), CallbackData: "confirm_photo_translate"},
			},
			{
				{Text: i18n.Get(lang, "btn_cancel"), CallbackData: "cancel_operation"},
			},
		},
	}
}

// chatModesKeyboard lists selectable chat modes with per-message cost
func chatModesKeyboard(lang, userModel string) models.ReplyMarkup {
	var rows [][]models.InlineKeyboardButton
	for _, m := range ai.ChatModes {
		label := fmt.Sprintf("%s (%d %s)", m.Name, m.MessageCost(userModel), i18n.Get(lang, "credits_per_message"))
		rows = append(rows, []models.InlineKeyboardButton{
			{Text: label, CallbackData: "mode_" + m.ID},
		})
	}
	rows = append(rows, []models.InlineKeyboardButton{
		{Text: i18n.Get(lang, "btn_back_main"), CallbackData: "menu_back_main"},
	})
	return &models.InlineKeyboardMarkup{InlineKeyboard: rows}
}

// modelSelectionKeyboard lists selectable models with per-message cost
func modelSelectionKeyboard(lang string) models.ReplyMarkup {
	var rows [][]models.InlineKeyboardButton
	for _, m := range ai.AvailableModels {
		label := fmt.Sprintf("%s (%d %s)", m.Name, credits.MessageCost(m.ID), i18n.Get(lang, "credits_per_message"))
		rows = append(rows, []models.InlineKeyboardButton{
			{Text: label, CallbackData: "model_" + m.ID},
		})
	}
	rows = append(rows, []models.InlineKeyboardButton{
		{Text: i18n.Get(lang, "btn_back"), CallbackData: "menu_section_settings"},
	})
	return &models.InlineKeyboardMarkup{InlineKeyboard: rows}
}

// creditsMenuKeyboard returns the credits section actions
func creditsMenuKeyboard(lang string) models.ReplyMarkup {
	return &models.InlineKeyboardMarkup{
		InlineKeyboard: [][]models.InlineKeyboardButton{
			{
				{Text: i18n.Get(lang, "btn_buy_credits"), CallbackData: "menu_credits_buy"},
			},
			{
				{Text: i18n.Get(lang, "btn_history"), CallbackData: "menu_credits_history"},
			},
			{
				{Text: i18n.Get(lang, "btn_back_main"), CallbackData: "menu_back_main"},
			},
		},
	}
}

// packagesKeyboard lists purchasable credit bundles
func packagesKeyboard(lang string) models.ReplyMarkup {
	var rows [][]models.InlineKeyboardButton
	for _, p := range credits.Packages {
		rows = append(rows, []models.InlineKeyboardButton{
			{Text: p.Label, CallbackData: "buy_package_" + strconv.Itoa(p.ID)},
		})
	}
	rows = append(rows, []models.InlineKeyboardButton{
		{Text: i18n.Get(lang, "btn_back"), CallbackData: "menu_section_credits"},
	})
	return &models.InlineKeyboardMarkup{InlineKeyboard: rows}
}

// settingsKeyboard returns the settings section actions
func settingsKeyboard(lang string) models.ReplyMarkup {
	return &models.InlineKeyboardMarkup{
		InlineKeyboard: [][]models.InlineKeyboardButton{
			{
				{Text: "🤖 " + i18n.Get(lang, "btn_model"), CallbackData: "settings_model"},
			},
			{
				{Text: "🌍 " + i18n.Get(lang, "btn_language"), CallbackData: "settings_language"},
			},
			{
				{Text: "✏️ " + i18n.Get(lang, "btn_name"), CallbackData: "settings_name"},
			},
			{
				{Text: i18n.Get(lang, "btn_back_main"), CallbackData: "menu_back_main"},
			},
		},
	}
}

// settingsLanguageKeyboard lists interface languages inside settings
func settingsLanguageKeyboard() models.ReplyMarkup {
	var rows [][]models.InlineKeyboardButton
	for _, l := range i18n.Languages {
		rows = append(rows, []models.InlineKeyboardButton{
			{Text: l.Name, CallbackData: "start_lang_" + l.Code},
		})
	}
	rows = append(rows, []models.InlineKeyboardButton{
		{Text: "◀️", CallbackData: "menu_section_settings"},
	})
	return &models.InlineKeyboardMarkup{InlineKeyboard: rows}
}

// historyKeyboard returns the history section actions
func historyKeyboard(lang string) models.ReplyMarkup {
	return &models.InlineKeyboardMarkup{
		InlineKeyboard: [][]models.InlineKeyboardButton{
			{
				{Text: i18n.Get(lang, "btn_new_chat"), CallbackData: "history_new"},
			},
			{
				{Text: "🗑 " + i18n.Get(lang, "btn_clear_history"), CallbackData: "history_delete"},
			},
			{
				{Text: i18n.Get(lang, "btn_back_main"), CallbackData: "menu_back_main"},
			},
		},
	}
}

// buyCreditsKeyboard is attached to insufficient-credit errors
func buyCreditsKeyboard(lang string) models.ReplyMarkup {
	return &models.InlineKeyboardMarkup{
		InlineKeyboard: [][]models.InlineKeyboardButton{
			{
				{Text: i18n.Get(lang, "btn_buy_credits"), CallbackData: "quick_buy_credits"},
			},
		},
	}
}

// onboardingKeyboard advances the first-run tour
func onboardingKeyboard(lang string) models.ReplyMarkup {
	return &models.InlineKeyboardMarkup{
		InlineKeyboard: [][]models.InlineKeyboardButton{
			{
				{Text: "🚀 " + i18n.Get(lang, "btn_new_chat"), CallbackData: "onboarding_done"},
			},
		},
	}
}
