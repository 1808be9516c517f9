package emoji

// emojiMap holds [emoji, fallback] pairs
var emojiMap = map[string][2]string{
	"error":    {"❌", "[ERR]"},
	"warning":  {"⚠️", "[WRN]"},
	"info":     {"ℹ️", "[INF]"},
	"success":  {"✅", "[OK]"},
	"skein":    {"🧶", "[*]"},
	"brand":    {"🏷️", "[B]"},
	"library":  {"📚", "[LIB]"},
	"palette":  {"🎨", "[CLR]"},
	"search":   {"🔍", "[/]"},
	"sort":     {"↕️", "[^v]"},
	"count":    {"🔢", "[#]"},
	"add":      {"➕", "[+]"},
	"edit":     {"✏️", "[E]"},
	"delete":   {"🗑️", "[DEL]"},
	"import":   {"📥", "[IMP]"},
	"export":   {"📤", "[EXP]"},
	"update":   {"🚀", "[UPD]"},
	"file":     {"📄", "[F]"},
	"folder":   {"📁", "[D]"},
	"help":     {"❓", "[?]"},
	"door":     {"🚪", "[EXIT]"},
	"target":   {"🎯", "[>]"},
	"reload":   {"🔄", "[R]"},
	"sparkles": {"✨", "[NEW]"},
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
			return mapping[1]
		}
		return mapping[0]
	}
	return "[?]"
}
