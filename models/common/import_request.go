package common

import (
	"encoding/json"
	"fmt"
)

// ImportRequest is the body of a message on the profile import
// topic. It points to a profile document either by URL or by S3
// bucket and key. ProfileId, if set, becomes the id of the imported
// profile, so re-importing replaces the old copy.
type ImportRequest struct {
	Bucket    string `json:"bucket,omitempty"`
	Key       string `json:"key,omitempty"`
	ProfileId string `json:"profileId,omitempty"`
	URL       string `json:"url,omitempty"`
}

func ImportRequestFromJson(jsonData []byte) (*ImportRequest, error) {
	req := &ImportRequest{}
	if err := json.Unmarshal(jsonData, req); err != nil {
		return nil, err
	}
	return req, nil
}

func (r *ImportRequest) ToJson() ([]byte, error) {
	return json.Marshal(r)
}

// Validate returns an error unless the request names exactly one
// source: a URL, or a bucket and key.
func (r *ImportRequest) Validate() error {
	hasURL := r.URL != ""
	hasObject := r.Bucket != "" || r.Key != ""
	if hasURL && hasObject {
		return fmt.Errorf("Import request must have a URL or a bucket and key, not both")
	}
	if !hasURL && !hasObject {
		return fmt.Errorf("Import request must have a URL or a bucket and key")
	}
	if hasObject && (r.Bucket == "" || r.Key == "") {
		return fmt.Errorf("Import request needs both bucket and key")
	}
	return nil
}

// Source describes where the document comes from, for log messages
// and for naming profiles imported from formats that carry no name.
func (r *ImportRequest) Source() string {
	if r.URL != "" {
		return r.URL
	}
	return fmt.Sprintf("s3://%s/%s", r.Bucket, r.Key)
}
