package models

// Wire-level request and response shapes. Requests are serialized to JSON
// and then AES-GCM encrypted with the per-call transmission key; responses
// are the decrypted counterpart. Binary values travel base64url-encoded.

// GetPayload requests secrets, optionally filtered to specific record UIDs.
// PublicKey is set only on the very first (binding) exchange so the server
// can associate the client's key pair with the one-time token.
type GetPayload struct {
	ClientVersion    string   `json:"clientVersion"`
	ClientID         string   `json:"clientId"`
	PublicKey        string   `json:"publicKey,omitempty"`
	RequestedRecords []string `json:"requestedRecords,omitempty"`
	RequestedFolders []string `json:"requestedFolders,omitempty"`
}

// UpdatePayload pushes a re-encrypted record payload under an expected
// revision. A stale revision is rejected server-side.
type UpdatePayload struct {
	ClientVersion   string `json:"clientVersion"`
	ClientID        string `json:"clientId"`
	RecordUID       string `json:"recordUid"`
	Data            string `json:"data"`
	Revision        int64  `json:"revision"`
	TransactionType string `json:"transactionType,omitempty"`
}

// CreatePayload creates a record inside a shared folder. RecordKey is the
// fresh record key wrapped with the app key; FolderKey wraps the same record
// key with the folder key so folder members can reach it.
type CreatePayload struct {
	ClientVersion string `json:"clientVersion"`
	ClientID      string `json:"clientId"`
	RecordUID     string `json:"recordUid"`
	RecordKey     string `json:"recordKey"`
	FolderUID     string `json:"folderUid"`
	FolderKey     string `json:"folderKey,omitempty"`
	Data          string `json:"data"`
}

// DeletePayload removes records by UID.
type DeletePayload struct {
	ClientVersion string   `json:"clientVersion"`
	ClientID      string   `json:"clientId"`
	RecordUIDs    []string `json:"recordUids"`
}

// FileUploadPayload registers a file record and links it to its owner
// record before the binary content is posted to the returned upload URL.
type FileUploadPayload struct {
	ClientVersion   string `json:"clientVersion"`
	ClientID        string `json:"clientId"`
	FileRecordUID   string `json:"fileRecordUid"`
	FileRecordKey   string `json:"fileRecordKey"`
	FileRecordData  string `json:"fileRecordData"`
	OwnerRecordUID  string `json:"ownerRecordUid"`
	OwnerRecordData string `json:"ownerRecordData"`
	LinkKey         string `json:"linkKey"`
	FileSize        int64  `json:"fileSize"`
}

// SecretsResponse is the decrypted body of a get_secret exchange.
// EncryptedAppKey is present only on the first (binding) exchange.
type SecretsResponse struct {
	AppData           string           `json:"appData"`
	EncryptedAppKey   string           `json:"encryptedAppKey,omitempty"`
	AppOwnerPublicKey string           `json:"appOwnerPublicKey,omitempty"`
	Records           []RecordResponse `json:"records,omitempty"`
	Folders           []FolderResponse `json:"folders,omitempty"`
	ExpiresOn         int64            `json:"expiresOn,omitempty"`
	Warnings          []string         `json:"warnings,omitempty"`
}

// RecordResponse is one encrypted record as delivered by the server.
type RecordResponse struct {
	RecordUID      string         `json:"recordUid"`
	RecordKey      string         `json:"recordKey,omitempty"`
	Data           string         `json:"data"`
	Revision       int64          `json:"revision"`
	IsEditable     bool           `json:"isEditable"`
	InnerFolderUID string         `json:"innerFolderUid,omitempty"`
	Files          []FileResponse `json:"files,omitempty"`
}

// FolderResponse is one shared folder with its nested encrypted records.
type FolderResponse struct {
	FolderUID string           `json:"folderUid"`
	FolderKey string           `json:"folderKey"`
	ParentUID string           `json:"parent,omitempty"`
	Records   []RecordResponse `json:"records,omitempty"`
}

// FileResponse is one encrypted file attachment descriptor.
type FileResponse struct {
	FileUID      string `json:"fileUid"`
	FileKey      string `json:"fileKey"`
	Data         string `json:"data"`
	URL          string `json:"url"`
	ThumbnailURL string `json:"thumbnailUrl,omitempty"`
}

// FileMeta is the decrypted file descriptor payload.
type FileMeta struct {
	Name         string `json:"name"`
	Title        string `json:"title,omitempty"`
	Size         int64  `json:"size"`
	Type         string `json:"type,omitempty"`
	LastModified int64  `json:"lastModified,omitempty"`
}

// FileUploadResponse carries the pre-signed upload target for a file's
// binary content.
type FileUploadResponse struct {
	URL               string `json:"url"`
	Parameters        string `json:"parameters"`
	SuccessStatusCode int    `json:"successStatusCode"`
}

// ServerErrorResponse is the plaintext body of a structured non-2xx
// response. Older deployments use "error" instead of "result_code".
type ServerErrorResponse struct {
	ResultCode string `json:"result_code,omitempty"`
	Error      string `json:"error,omitempty"`
	Message    string `json:"message,omitempty"`
	KeyID      int    `json:"key_id,omitempty"`
}

// Code returns the result code regardless of which field the server used.
func (r *ServerErrorResponse) Code() string {
	if r.ResultCode != "" {
		return r.ResultCode
	}
	return r.Error
}
