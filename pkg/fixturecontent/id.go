package fixturecontent

import (
	"strings"

	"github.com/google/uuid"
)

// ID identifies items, templates, fields and branches. The zero value is the
// null identifier and is never a valid store key.
type ID uuid.UUID

// NullID is the reserved null identifier.
var NullID ID

// Well known host identifiers.
var (
	RootID             = MustParseID("{11111111-1111-1111-1111-111111111111}")
	TemplateTemplateID = MustParseID("{AB86861A-6030-46C5-B394-E8F99E8B87DB}")
)

// NewID returns a random identifier.
func NewID() ID {
	return ID(uuid.New())
}

// ParseID parses the braced or bare hyphenated form of an identifier.
// It reports false for anything else, including blank text.
func ParseID(text string) (ID, bool) {
	s := strings.TrimSpace(text)
	if strings.HasPrefix(s, "{") && strings.HasSuffix(s, "}") {
		s = s[1 : len(s)-1]
	}
	// uuid.Parse also accepts urn and raw hex forms; the host does not.
	if len(s) != 36 {
		return NullID, false
	}
	u, err := uuid.Parse(s)
	if err != nil {
		return NullID, false
	}
	return ID(u), true
}

// MustParseID is like ParseID but panics on malformed input. It is meant for
// package-level constants.
func MustParseID(text string) ID {
	id, ok := ParseID(text)
	if !ok {
		panic("fixturecontent: malformed id " + text)
	}
	return id
}

// FormatID renders id in the host's canonical upper-case braced form, or
// without braces when stripBraces is set.
func FormatID(id ID, stripBraces bool) string {
	s := strings.ToUpper(id.UUID().String())
	if stripBraces {
		return s
	}
	return "{" + s + "}"
}

// IsNull reports whether id is the null identifier.
func (id ID) IsNull() bool {
	return id == NullID
}

func (id ID) String() string {
	return FormatID(id, false)
}

// UUID returns the underlying uuid value.
func (id ID) UUID() uuid.UUID {
	return uuid.UUID(id)
}

// MarshalText implements encoding.TextMarshaler using the braced form.
func (id ID) MarshalText() ([]byte, error) {
	return []byte(id.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler. Blank text decodes to
// NullID.
func (id *ID) UnmarshalText(text []byte) error {
	if strings.TrimSpace(string(text)) == "" {
		*id = NullID
		return nil
	}
	parsed, ok := ParseID(string(text))
	if !ok {
		return ErrMalformedID
	}
	*id = parsed
	return nil
}
