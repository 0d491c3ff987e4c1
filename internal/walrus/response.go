package walrus

import (
	"encoding/json"
	"fmt"

	"github.com/dmitrijs2005/blobkeeper/internal/blobstore"
)

// StoreResponse is the publisher's PUT /v1/blobs body. Exactly one of the
// two fields is expected to be set.
type StoreResponse struct {
	NewlyCreated     *NewlyCreated     `json:"newlyCreated,omitempty"`
	AlreadyCertified *AlreadyCertified `json:"alreadyCertified,omitempty"`
}

type NewlyCreated struct {
	BlobObject        BlobObject        `json:"blobObject"`
	ResourceOperation ResourceOperation `json:"resourceOperation"`
	Cost              int64             `json:"cost"`
}

type BlobObject struct {
	ID              string          `json:"id"`
	RegisteredEpoch int64           `json:"registeredEpoch"`
	BlobID          string          `json:"blobId"`
	Size            int64           `json:"size"`
	EncodingType    string          `json:"encodingType"`
	CertifiedEpoch  *int64          `json:"certifiedEpoch"`
	Storage         StorageResource `json:"storage"`
	Deletable       bool            `json:"deletable"`
}

type StorageResource struct {
	ID          string `json:"id"`
	StartEpoch  int64  `json:"startEpoch"`
	EndEpoch    int64  `json:"endEpoch"`
	StorageSize int64  `json:"storageSize"`
}

type ResourceOperation struct {
	RegisterFromScratch *RegisterFromScratch `json:"registerFromScratch,omitempty"`
}

type RegisterFromScratch struct {
	EncodedLength int64 `json:"encodedLength"`
	EpochsAhead   int64 `json:"epochsAhead"`
}

type AlreadyCertified struct {
	BlobID   string  `json:"blobId"`
	Event    EventID `json:"event"`
	EndEpoch int64   `json:"endEpoch"`
}

type EventID struct {
	TxDigest string `json:"txDigest"`
	EventSeq string `json:"eventSeq"`
}

// ParseStoreResponse decodes a publisher body and unwraps it. newlyCreated
// wins if a body somehow carries both envelopes.
func ParseStoreResponse(body []byte) (*blobstore.PublishResult, error) {
	var resp StoreResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnexpectedResponse, err)
	}
	return resp.Result()
}

// Result extracts blob id and Sui reference from whichever envelope is set.
func (r *StoreResponse) Result() (*blobstore.PublishResult, error) {
	switch {
	case r.NewlyCreated != nil && r.NewlyCreated.BlobObject.BlobID != "":
		return &blobstore.PublishResult{
			BlobID: r.NewlyCreated.BlobObject.BlobID,
			SuiRef: r.NewlyCreated.BlobObject.ID,
			Status: blobstore.StatusNewlyCreated,
		}, nil
	case r.AlreadyCertified != nil && r.AlreadyCertified.BlobID != "":
		return &blobstore.PublishResult{
			BlobID: r.AlreadyCertified.BlobID,
			SuiRef: r.AlreadyCertified.Event.TxDigest,
			Status: blobstore.StatusAlreadyCertified,
		}, nil
	}
	return nil, ErrUnexpectedResponse
}
