package models

// Account represents a single decrypted vault entry.
// It is reconstructed from the server blob on every sync and is never
// mutated in place; a resync replaces the whole vault wholesale.
type Account struct {
	// ID is the server-assigned unique identifier of the entry.
	ID string `json:"id"`

	// Name is the decrypted display name of the entry.
	Name string `json:"name"`

	// Group is the decrypted folder path the entry belongs to.
	// Empty for entries at the vault root.
	Group string `json:"group,omitempty"`

	// Fullname is Group + "/" + Name, or just Name for root entries.
	Fullname string `json:"fullname"`

	// URL is the decrypted site address associated with the entry.
	URL string `json:"url,omitempty"`

	// Notes contains the decrypted free-form notes of the entry.
	Notes string `json:"notes,omitempty"`

	// Username is the decrypted login name.
	Username string `json:"username,omitempty"`

	// Password is the decrypted password.
	// Treat with care: never log, never persist in plaintext.
	Password string `json:"password,omitempty"`

	// PasswordProtected reports whether the server requires a password
	// re-prompt before this entry may be revealed.
	PasswordProtected bool `json:"pwprotect,omitempty"`

	// Generated reports whether the password was produced by the
	// server-side generator rather than typed by the user.
	Generated bool `json:"generated,omitempty"`

	// ShareID is the identifier of the shared folder this entry belongs
	// to, or empty when the entry is encrypted under the master vault key.
	ShareID string `json:"share_id,omitempty"`

	// LastTouch is the server-reported last-use timestamp (opaque string,
	// seconds since epoch as sent on the wire).
	LastTouch string `json:"last_touch,omitempty"`

	// LastModifiedGMT is the server-reported last-modification timestamp.
	LastModifiedGMT string `json:"last_modified_gmt,omitempty"`

	// AttachKey is the decrypted per-entry attachment key used to decrypt
	// attachment bodies fetched out-of-band. Empty when the entry has no
	// attachments.
	AttachKey string `json:"-"`

	// Fields contains decrypted user-defined custom fields, in stream order.
	Fields []Field `json:"fields,omitempty"`

	// Attachments lists metadata of files attached to this entry.
	// Bodies are fetched and decrypted separately.
	Attachments []Attachment `json:"attachments,omitempty"`
}
