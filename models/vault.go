package models

// Field is a user-defined custom field attached to an Account.
type Field struct {
	// Name is the decrypted field label.
	Name string `json:"name"`

	// Value is the decrypted field content.
	Value string `json:"value"`

	// Type is the field kind as reported by the server
	// (e.g. "text", "password", "checkbox").
	Type string `json:"type"`

	// Checked is the state of checkbox-typed fields.
	Checked bool `json:"checked,omitempty"`
}

// Share describes a shared folder whose entries are encrypted under a
// separate symmetric key distributed via RSA-wrapped key material.
type Share struct {
	// ID is the server-assigned identifier of the shared folder.
	ID string `json:"id"`

	// Name is the decrypted display name of the shared folder.
	Name string `json:"name"`

	// Key is the unwrapped 32-byte symmetric key of the folder.
	// Held only in memory for the lifetime of the vault.
	Key []byte `json:"-"`

	// ReadOnly reports whether the folder was shared without write access.
	ReadOnly bool `json:"readonly,omitempty"`
}

// Attachment holds the metadata of a file attached to an Account.
// The body is stored in a separate ciphertext store and is fetched and
// decrypted out-of-band using the StorageKey reference.
type Attachment struct {
	// ID is the server-assigned identifier of the attachment.
	ID string `json:"id"`

	// ParentID is the ID of the owning Account.
	ParentID string `json:"parent_id"`

	// MimeType is the declared content type of the attachment body.
	MimeType string `json:"mimetype"`

	// StorageKey is the opaque reference used to fetch the encrypted body.
	StorageKey string `json:"storage_key"`

	// Size is the declared body size in bytes.
	Size int64 `json:"size"`

	// Filename is the attachment file name.
	Filename string `json:"filename"`
}

// Vault is the immutable result of one full blob decode. It is safe to
// share across goroutines for concurrent read-only access.
type Vault struct {
	// Accounts lists every decoded entry in stream order.
	Accounts []Account `json:"accounts"`

	// Shares lists every shared folder encountered in the blob.
	Shares []Share `json:"shares"`
}

// Empty reports whether the vault holds no entries. An empty vault is a
// valid decode result, not an error.
func (v *Vault) Empty() bool {
	return len(v.Accounts) == 0
}

// Find returns the first account whose Fullname or ID equals name, or nil
// when no entry matches.
func (v *Vault) Find(name string) *Account {
	for i := range v.Accounts {
		if v.Accounts[i].Fullname == name || v.Accounts[i].ID == name {
			return &v.Accounts[i]
		}
	}
	return nil
}
