// Package i18n holds the user-facing strings for every supported language.
// Bengali is the default and is used for unknown tags. Keys missing from a
// language are looked up in English.
package i18n

import (
	"golang.org/x/text/language"
	"golang.org/x/text/language/display"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"
)

// Message keys
const (
	KeyTitle          = "title"
	KeyTagline        = "tagline"
	KeyContentLabel   = "content_label"
	KeyCharCount      = "char_count"
	KeyAnalyzing      = "analyzing"
	KeyAnalysisFailed = "analysis_failed"
	KeyEmptyResponse  = "empty_response"
	KeyCustomize      = "customize"
	KeyForeground     = "foreground"
	KeyBackground     = "background"
	KeyLevel          = "level"
	KeyMargin         = "margin"
	KeyPreview        = "preview"
	KeyCanvasSize     = "canvas_size"
	KeyDownloadPNG    = "download_png"
	KeyDownloadPDF    = "download_pdf"
	KeyCopy           = "copy"
	KeyCopied         = "copied"
	KeyCopyFailed     = "copy_failed"
	KeySaved          = "saved"
	KeyExportFailed   = "export_failed"
	KeyNoSurface      = "no_surface"
	KeyRenderError    = "render_error"
	KeyTipsTitle      = "tips_title"
	KeyTips           = "tips"
	KeySafe           = "safe"
	KeyUnsafe         = "unsafe"
	KeySuggestion     = "suggestion"
	KeyHelp           = "help"
	KeyGoodbye        = "goodbye"
	KeyPDFTitle       = "pdf_title"
	KeyPDFCaption     = "pdf_caption"
)

// Supported languages
var (
	Bengali = language.Bengali
	English = language.English

	supported = []language.Tag{Bengali, English}
	matcher   = language.NewMatcher(supported)
)

var entries = map[string][2]string{
	// key: {bn, en}
	KeyTitle:          {"QR Pro Studio", "QR Pro Studio"},
	KeyTagline:        {"দ্রুত • নির্ভরযোগ্য • হাই-কোয়ালিটি", "Fast • Reliable • High quality"},
	KeyContentLabel:   {"কিউআর কোড কন্টেন্ট (লিংক বা টেক্সট)", "QR code content (link or text)"},
	KeyCharCount:      {"%d ক্যারেক্টার", "%d characters"},
	KeyAnalyzing:      {"AI কন্টেন্ট বিশ্লেষণ করছে...", "AI is analyzing content..."},
	KeyAnalysisFailed: {"অ্যানালাইসিস করা সম্ভব হয়নি।", "Could not analyze the content."},
	KeyEmptyResponse:  {"Error analyzing content", "Error analyzing content"},
	KeyCustomize:      {"কাস্টমাইজ করুন", "Customize"},
	KeyForeground:     {"ফোরগ্রাউন্ড কালার", "Foreground color"},
	KeyBackground:     {"ব্যাকগ্রাউন্ড কালার", "Background color"},
	KeyLevel:          {"নির্ভুলতা স্তর (Error Correction)", "Error correction"},
	KeyMargin:         {"মার্জিন যোগ করুন", "Add margin"},
	KeyPreview:        {"কিউআর প্রিভিউ", "QR preview"},
	KeyCanvasSize:     {"ক্যানভাস সাইজ: %dx%dpx", "Canvas size: %dx%dpx"},
	KeyDownloadPNG:    {"ইমেজ ডাউনলোড করুন (PNG)", "Download image (PNG)"},
	KeyDownloadPDF:    {"পিডিএফ ডাউনলোড করুন (PDF)", "Download document (PDF)"},
	KeyCopy:           {"কপি করুন", "Copy"},
	KeyCopied:         {"কপি হয়েছে!", "Copied!"},
	KeyCopyFailed:     {"ক্লিপবোর্ডে কপি করা যায়নি", "Could not copy to clipboard"},
	KeySaved:          {"সংরক্ষিত: %s (%s)", "Saved %s (%s)"},
	KeyExportFailed:   {"এক্সপোর্ট ব্যর্থ: %s", "Export failed: %s"},
	KeyNoSurface:      {"এক্সপোর্ট করার মতো কোনো কিউআর কোড নেই", "No QR code to export yet"},
	KeyRenderError:    {"কিউআর কোড তৈরি করা যায়নি: %s", "Cannot render QR code: %s"},
	KeyTipsTitle:      {"টিপস", "Tips"},
	KeyTips: {
		"সবচেয়ে ভালো স্ক্যানিং ফলাফলের জন্য ব্যাকগ্রাউন্ডের চেয়ে ফোরগ্রাউন্ড কালার গাঢ় রাখার চেষ্টা করুন। প্রিন্ট করার জন্য PDF ফরম্যাট বেছে নিন।",
		"For the best scanning results keep the foreground darker than the background. Choose PDF for printing.",
	},
	KeySafe:       {"নিরাপদ", "Safe"},
	KeyUnsafe:     {"সতর্কতা", "Caution"},
	KeySuggestion: {"AI পরামর্শ", "AI suggestion"},
	KeyHelp: {
		"tab: ফিল্ড • ctrl+e: লেভেল • ctrl+t: মার্জিন • pgup/pgdn: সাইজ • ctrl+s: PNG • ctrl+p: PDF • ctrl+y: কপি • ctrl+r: বিশ্লেষণ • esc: বের হন",
		"tab: field • ctrl+e: level • ctrl+t: margin • pgup/pgdn: size • ctrl+s: PNG • ctrl+p: PDF • ctrl+y: copy • ctrl+r: analyze • esc: quit",
	},
	KeyGoodbye: {"QR Pro Studio ব্যবহারের জন্য ধন্যবাদ!", "Thanks for using QR Pro Studio!"},

	// Document text stays English: the core PDF fonts only carry cp1252.
	KeyPDFTitle:   {"Generated QR Code", "Generated QR Code"},
	KeyPDFCaption: {"Content: %s", "Content: %s"},
}

var cat = newCatalog()

func newCatalog() *catalog.Builder {
	b := catalog.NewBuilder(catalog.Fallback(English))
	for key, msgs := range entries {
		// Errors only occur for malformed tags, and ours are constants.
		_ = b.SetString(Bengali, key, msgs[0])
		_ = b.SetString(English, key, msgs[1])
	}
	return b
}

// Translator formats messages for one language
type Translator struct {
	tag     language.Tag
	printer *message.Printer
}

// New returns a translator for lang, e.g. "bn", "en-US". Unknown or empty
// values fall back to Bengali.
func New(lang string) *Translator {
	tag := Bengali
	if lang != "" {
		if parsed, err := language.Parse(lang); err == nil {
			_, idx, conf := matcher.Match(parsed)
			if conf != language.No {
				tag = supported[idx]
			}
		}
	}

	return &Translator{
		tag:     tag,
		printer: message.NewPrinter(tag, message.Catalog(cat)),
	}
}

// T formats the message stored under key
func (t *Translator) T(key string, args ...any) string {
	return t.printer.Sprintf(key, args...)
}

// Tag returns the resolved language
func (t *Translator) Tag() language.Tag {
	return t.tag
}

// promptNames pins the names used in prompts; x/text calls bn "Bangla"
var promptNames = map[language.Tag]string{
	Bengali: "Bengali",
	English: "English",
}

// LanguageName returns the English name of the language, as used in prompts
func (t *Translator) LanguageName() string {
	if name, ok := promptNames[t.tag]; ok {
		return name
	}
	return display.English.Tags().Name(t.tag)
}

// Supported reports whether lang resolves to one of the bundled languages
func Supported(lang string) bool {
	parsed, err := language.Parse(lang)
	if err != nil {
		return false
	}
	_, _, conf := matcher.Match(parsed)
	return conf != language.No
}
