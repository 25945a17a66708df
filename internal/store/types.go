package store

// Kind identifies a top-level document collection in the world database.
type Kind string

const (
	KindActor        Kind = "Actor"
	KindItem         Kind = "Item"
	KindJournalEntry Kind = "JournalEntry"
	KindMacro        Kind = "Macro"
	KindPlaylist     Kind = "Playlist"
	KindRollTable    Kind = "RollTable"
	KindCards        Kind = "Cards"
	KindScene        Kind = "Scene"
	KindChatMessage  Kind = "ChatMessage"
)

// Kinds lists every document kind.
var Kinds = []Kind{
	KindActor,
	KindItem,
	KindJournalEntry,
	KindMacro,
	KindPlaylist,
	KindRollTable,
	KindCards,
	KindScene,
	KindChatMessage,
}

// ValidKind reports whether s names a known document kind.
func ValidKind(s string) bool {
	for _, k := range Kinds {
		if string(k) == s {
			return true
		}
	}
	return false
}

// EmbeddedKind identifies a child collection owned by a parent document.
type EmbeddedKind string

const (
	EmbeddedToken        EmbeddedKind = "Token"
	EmbeddedActiveEffect EmbeddedKind = "ActiveEffect"
	EmbeddedSound        EmbeddedKind = "PlaylistSound"
)

// Record is a stored world document. Only the fields a given kind uses are
// populated; the rest stay at their zero values. JSON tags follow the world
// export format, and Update field maps use the same tag names as keys.
type Record struct {
	ID         string         `json:"_id"`
	Kind       Kind           `json:"kind"`
	Name       string         `json:"name"`
	Type       string         `json:"type,omitempty"`
	Img        string         `json:"img,omitempty"`
	FolderName string         `json:"folder,omitempty"`
	Protected  bool           `json:"protected,omitempty"`
	System     map[string]any `json:"system,omitempty"`
	Command    string         `json:"command,omitempty"`
	Content    string         `json:"content,omitempty"`
	Author     string         `json:"author,omitempty"`
	Timestamp  int64          `json:"timestamp,omitempty"`
	Whisper    []string       `json:"whisper,omitempty"`
	Pages      []Page         `json:"pages,omitempty"`
	Tokens     []Token        `json:"tokens,omitempty"`
	Effects    []Effect       `json:"effects,omitempty"`
	Sounds     []Sound        `json:"sounds,omitempty"`
	Results    []TableResult  `json:"results,omitempty"`
	Cards      []Card         `json:"cards,omitempty"`
	Items      []Record       `json:"items,omitempty"`
}

// Token is a scene placeable referencing an actor by id.
type Token struct {
	ID      string `json:"_id"`
	Name    string `json:"name"`
	ActorID string `json:"actorId,omitempty"`
}

// Effect is an active effect on an actor. Origin encodes the granting
// source as a dot-delimited reference.
type Effect struct {
	ID     string `json:"_id"`
	Name   string `json:"name"`
	Origin string `json:"origin,omitempty"`
}

// Sound is a playlist track with a file path.
type Sound struct {
	ID   string `json:"_id"`
	Name string `json:"name"`
	Path string `json:"path,omitempty"`
}

// Page is a journal entry page.
type Page struct {
	ID   string `json:"_id"`
	Name string `json:"name"`
	Text string `json:"text,omitempty"`
}

// TableResult is a single roll table row.
type TableResult struct {
	ID   string `json:"_id"`
	Text string `json:"text,omitempty"`
}

// Card is a single card in a deck.
type Card struct {
	ID   string `json:"_id"`
	Name string `json:"name"`
}

// EmbeddedUpdate addresses one embedded child by id and carries the fields
// to change, keyed by JSON tag name.
type EmbeddedUpdate struct {
	ID     string
	Fields map[string]any
}

// Compendium is a holding container for documents moved out of the world.
type Compendium struct {
	Key   string `json:"key"`
	Label string `json:"label"`
	Kind  Kind   `json:"kind"`
}

// CompendiumMeta describes a compendium to create.
type CompendiumMeta struct {
	Key   string
	Label string
	Kind  Kind
}
