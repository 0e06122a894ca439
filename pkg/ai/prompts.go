package ai

const imageAnalyzePrompt = `Describe this image in detail. Mention the main subject, notable objects, any visible text, and anything unusual. Answer in the language of any visible text, otherwise in English.`

const imageTranslatePrompt = `Extract all text visible in this image and translate it into %s. Return only the translated text, preserving the layout where possible. If the image contains no text, say so briefly.`

const documentAnalyzePrompt = `You are a document analyst. The user sends the content of the file %q. Summarize the document, list its key points, and note anything that looks important or unusual. Answer in the document's language.`

const documentTranslatePrompt = `You are a professional translator. The user sends the content of the file %q. Translate it into %s, preserving the structure and formatting. Return only the translation.`

const textTranslatePrompt = `You are a professional translator. Translate the user's text into %s, preserving tone and formatting. Return only the translation.`
