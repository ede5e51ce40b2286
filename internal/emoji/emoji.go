package emoji

// emojiMap holds emoji and fallback mappings
var emojiMap = map[string][2]string{
	// [emoji, fallback]
	"error":     {"❌", "[ERR]"},
	"warning":   {"⚠️", "[WRN]"},
	"info":      {"ℹ️", "[INF]"},
	"success":   {"✅", "[OK]"},
	"safe":      {"🛡️", "[SAFE]"},
	"unsafe":    {"🚨", "[WARN]"},
	"brain":     {"🧠", "[AI]"},
	"sparkles":  {"✨", "[*]"},
	"qr":        {"🔳", "[QR]"},
	"palette":   {"🎨", "[CLR]"},
	"image":     {"🖼️", "[PNG]"},
	"document":  {"📄", "[PDF]"},
	"clipboard": {"📋", "[CPY]"},
	"folder":    {"📁", "[DIR]"},
	"target":    {"🎯", "[>]"},
	"eye":       {"👀", "[WATCH]"},
	"tip":       {"💡", "[TIP]"},
	"door":      {"🚪", "[EXIT]"},
	"rocket":    {"🚀", "[GO]"},
}

var emojiDisabled bool

// SetEmojiDisabled sets the global emoji disabled state
func SetEmojiDisabled(disabled bool) {
	emojiDisabled = disabled
}

// IsEmojiDisabled returns the current emoji disabled state
func IsEmojiDisabled() bool {
	return emojiDisabled
}

// GetEmoji returns emoji or fallback based on no-emoji setting
func GetEmoji(key string) string {
	if mapping, exists := emojiMap[key]; exists {
		if emojiDisabled {
			return mapping[1] // fallback
		}
		return mapping[0] // emoji
	}
	return "[?]" // unknown key
}

// ForSafety returns the indicator for a safe or unsafe verdict
func ForSafety(safe bool) string {
	if safe {
		return GetEmoji("safe")
	}
	return GetEmoji("unsafe")
}
