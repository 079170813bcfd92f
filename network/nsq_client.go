package network

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
)

// NSQClient publishes messages to nsqd over HTTP.
//
// Note that this client provides write access to the queue, so we can
// add things. It does not provide read access. The workers do the
// reading.
type NSQClient struct {
	URL string
}

// NewNSQClient returns a new NSQ client that posts to nsqd's HTTP
// address, which usually ends with :4151.
func NewNSQClient(url string) *NSQClient {
	return &NSQClient{URL: url}
}

// EnqueueJson serializes v as JSON and posts it to topic. The import
// queue uses this to publish ImportRequests.
func (client *NSQClient) EnqueueJson(topic string, v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("Cannot serialize message for topic %s: %v", topic, err)
	}
	return client.Enqueue(topic, data)
}

// Enqueue posts data to the specified NSQ topic.
func (client *NSQClient) Enqueue(topic string, data []byte) error {
	pubURL := fmt.Sprintf("%s/pub?topic=%s", client.URL, url.QueryEscape(topic))
	resp, err := http.Post(pubURL, "application/json", bytes.NewBuffer(data))
	if err != nil {
		return NewHttpError("Nsqd returned an error when queuing data", err, http.MethodPost, pubURL, 0)
	}

	// nsqd sends a simple OK. We have to read the response body,
	// or the connection will hang open forever.
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		bodyText := "[no response body]"
		if len(body) > 0 {
			bodyText = string(body)
		}
		msg := fmt.Sprintf("nsqd returned status code %d when attempting to queue data. "+
			"Response body: %s", resp.StatusCode, bodyText)
		return NewHttpError(msg, nil, http.MethodPost, pubURL, resp.StatusCode)
	}
	return nil
}
