package constant

const (
	ChatMessageRoleUser   = "user"
	ChatMessageRoleModel  = "model"
	ChatMessageRoleSystem = "system"

	// Conversation modes. A conversation sticks to document_creation once
	// entered; help and sales follow each message, switching on an
	// explicit request mode or an intent keyword hit.
	ConversationModeDocument = "document_creation"
	ConversationModeHelp     = "help"
	ConversationModeSales    = "sales"

	ConversationStatusActive    = "active"
	ConversationStatusCompleted = "completed"
	ConversationStatusArchived  = "archived"
)

// Intent keywords for mode detection. Matched as whole words against the
// lowercased message; the document set wins over help, help over sales.
var (
	DocumentIntentKeywords = []string{
		"akt o proceni rizika", "procena rizika", "proceni rizika",
		"dokument", "izrada akta", "napravi akt", "novi akt",
	}

	HelpIntentKeywords = []string{
		"pomoć", "pomoc", "kako", "šta je", "sta je", "objasni",
		"zakon", "propis", "kazna", "inspekcija",
	}
)

// Affirmative and negative answers understood by the document flow.
var (
	YesKeywords = []string{"da", "jeste", "hoću", "hocu", "važi", "vazi", "ok", "naravno", "svakako"}
	NoKeywords  = []string{"ne", "neću", "necu", "nema", "ne želim", "ne zelim", "nije"}
)
