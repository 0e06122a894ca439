package i18n

var tables = map[string]map[string]string{
	"en": {
		"welcome":            "Hello, %s! 👋\n\nI'm your AI assistant. I can chat, analyze documents and photos, and translate text.\n\nChoose your language to get started:",
		"onboarding_intro":   "Quick tour 🚀\n\nEvery operation costs credits. You start with 20. Send me a message to chat, a document or photo to analyze, or open the menu to explore.",
		"onboarding_done":    "You're all set! Send a message or open /menu.",
		"main_menu_title":    "Main menu",
		"help_text":          "Commands:\n/start — restart the bot\n/menu — open the main menu\n/newchat — start a fresh conversation\n/translate <lang> <text> — translate text\n/setname <name> — change your display name\n/cancel — cancel a pending operation\n/help — this message\n\nSend a document or photo to analyze it. Voice notes are transcribed and answered like text.",

		"btn_chat_modes":  "🧠 Chat modes",
		"btn_credits":     "💰 Credits",
		"btn_history":     "📜 History",
		"btn_settings":    "⚙️ Settings",
		"btn_image":       "🖼 Images",
		"btn_help":        "❓ Help",
		"btn_back":        "◀️ Back",
		"btn_back_main":   "🏠 Main menu",
		"btn_new_chat":    "✨ New chat",
		"btn_last_chat":   "💬 Continue chat",
		"btn_buy_credits": "💳 Buy credits",
		"btn_confirm":     "✅ Confirm",
		"btn_cancel":      "❌ Cancel",

		"btn_model":         "Model",
		"btn_language":      "Language",
		"btn_name":          "Display name",
		"btn_clear_history": "Clear history",

		"section_chat_modes": "Choose a chat mode. The mode sets the assistant's style; cost per message depends on the model.",
		"section_credits":    "💰 Your balance: %d credits.",
		"section_history":    "📜 Conversation history.",
		"section_settings":   "⚙️ Settings\n\nModel: %s\nLanguage: %s\nName: %s",
		"section_image":      "🖼 Send me a photo to analyze it or translate text on it. Photo analysis costs %d credits, photo translation %d credits.",

		"credits_per_message":   "credits/message",
		"credits_insufficient":  "Not enough credits: this operation costs %d credits, you have %d (you need %d more). Top up to continue.",
		"credits_usage_report":  "📊 %s: %d credits (%d → %d).",
		"credits_low_balance":   "⚠️ You're running low: %d credits left. Consider topping up.",
		"credits_packages":      "Choose a credit package:",
		"credits_purchased":     "✅ Added %d credits. New balance: %d.",
		"credits_history_title": "Recent credit activity:",
		"credits_history_empty": "No credit activity yet.",

		"cost_confirm_prompt": "⚠️ %s\n\nProceed?",
		"op_in_progress":      "⏳ Working on it...",
		"op_failed":           "❌ The operation failed: %s\n\nYou were not charged.",
		"op_cancelled":        "Operation cancelled. You were not charged.",
		"op_expired":          "This confirmation has expired. Please start the operation again.",
		"op_none_pending":     "Nothing to confirm.",

		"opname_message":            "Message",
		"opname_document_analyze":   "Document analysis",
		"opname_document_translate": "Document translation",
		"opname_photo_analyze":      "Photo analysis",
		"opname_photo_translate":    "Photo translation",
		"opname_text_translate":     "Text translation",

		"file_too_big":       "File too large: the limit is %d MB, your file is %.1f MB.",
		"document_options":   "📄 %s\n\nWhat should I do with this document?",
		"photo_options":      "🖼 What should I do with this photo?",
		"btn_analyze":        "🔍 Analyze",
		"btn_translate":      "🌐 Translate",
		"voice_transcribed":  "🎤 You said: %s",
		"translate_usage":    "Usage: /translate <language> <text>, or reply to a message with /translate <language>.",
		"translate_result":   "🌐 Translation (%s):\n\n%s",
		"chat_start_hint":    "Press the button below to start chatting.",
		"new_chat_started":   "✨ New conversation started. What's on your mind?",
		"last_chat_resumed":  "💬 Continuing your conversation. My last reply was:\n\n%s",
		"mode_selected":      "Mode set: %s (%d credits/message).",
		"model_selected":     "Model set: %s (%d credits/message).",
		"history_empty":      "No messages in this conversation yet.",
		"history_cleared":    "History cleared, fresh conversation started.",
		"unknown_action":     "That button is no longer active. Here's the main menu:",

		"settings_choose_model":    "Choose the AI model to use:",
		"settings_choose_language": "Choose your language:",
		"settings_set_name":        "Send /setname <name> to change how I address you.",
		"settings_name_set":        "Done, I'll call you %s.",
		"language_set":             "Language set: %s.",
	},

	"pl": {
		"welcome":          "Cześć, %s! 👋\n\nJestem Twoim asystentem AI. Mogę rozmawiać, analizować dokumenty i zdjęcia oraz tłumaczyć teksty.\n\nWybierz język, aby zacząć:",
		"onboarding_intro": "Szybki przewodnik 🚀\n\nKażda operacja kosztuje kredyty. Na start masz 20. Napisz wiadomość, wyślij dokument lub zdjęcie albo otwórz menu.",
		"onboarding_done":  "Wszystko gotowe! Napisz wiadomość lub otwórz /menu.",
		"main_menu_title":  "Menu główne",

		"btn_chat_modes":  "🧠 Tryby czatu",
		"btn_credits":     "💰 Kredyty",
		"btn_history":     "📜 Historia",
		"btn_settings":    "⚙️ Ustawienia",
		"btn_image":       "🖼 Obrazy",
		"btn_help":        "❓ Pomoc",
		"btn_back":        "◀️ Powrót",
		"btn_back_main":   "🏠 Menu główne",
		"btn_new_chat":    "✨ Nowa rozmowa",
		"btn_last_chat":   "💬 Kontynuuj rozmowę",
		"btn_buy_credits": "💳 Kup kredyty",
		"btn_confirm":     "✅ Potwierdź",
		"btn_cancel":      "❌ Anuluj",

		"section_credits":      "💰 Twoje saldo: %d kredytów.",
		"credits_insufficient": "Za mało kredytów: ta operacja kosztuje %d kredytów, masz %d (brakuje %d). Doładuj konto, aby kontynuować.",
		"credits_usage_report": "📊 %s: %d kredytów (%d → %d).",
		"credits_low_balance":  "⚠️ Kończą się kredyty: zostało %d. Rozważ doładowanie.",
		"cost_confirm_prompt":  "⚠️ %s\n\nKontynuować?",
		"op_in_progress":       "⏳ Pracuję nad tym...",
		"op_failed":            "❌ Operacja nie powiodła się: %s\n\nNie pobrano opłaty.",
		"op_cancelled":         "Operacja anulowana. Nie pobrano opłaty.",
		"op_expired":           "To potwierdzenie wygasło. Rozpocznij operację ponownie.",
		"file_too_big":         "Plik jest za duży: limit to %d MB, Twój plik ma %.1f MB.",
		"new_chat_started":     "✨ Rozpoczęto nową rozmowę. O czym myślisz?",
		"unknown_action":       "Ten przycisk nie jest już aktywny. Oto menu główne:",
	},

	"ru": {
		"welcome":          "Привет, %s! 👋\n\nЯ твой AI-ассистент. Могу общаться, анализировать документы и фото, переводить тексты.\n\nВыбери язык, чтобы начать:",
		"main_menu_title":  "Главное меню",
		"btn_back_main":    "🏠 Главное меню",
		"btn_confirm":      "✅ Подтвердить",
		"btn_cancel":       "❌ Отмена",
		"section_credits":  "💰 Ваш баланс: %d кредитов.",
		"op_in_progress":   "⏳ Работаю над этим...",
		"op_cancelled":     "Операция отменена. Средства не списаны.",
		"new_chat_started": "✨ Новый диалог начат. О чём поговорим?",
	},
}
