package network

import (
	"bytes"
	"fmt"
	"io"
	"net/http"

	"github.com/datacommons-hub/submission-services/models/service"
)

type NSQClient struct {
	URL string
}

// Formally define this so we can generate mocks for testing.
type NSQClientInterface interface {
	Enqueue(topic string, msg *service.QueueMessage) error
}

// NewNSQClient returns a new NSQ client that will connect to the NSQ
// server at the specified url. The URL is typically available through
// Config.NsqURL, and usually ends with :4151. This is the URL to which
// we post messages we want to queue, and from which our workers read.
//
// Note that this client provides write access to the queue, so we can
// add things. It does not provide read access. The workers do the
// reading.
func NewNSQClient(url string) *NSQClient {
	return &NSQClient{URL: url}
}

// Enqueue posts a message to NSQ under the given topic. Dedup and group
// attributes travel inside the message envelope; NSQ itself does not
// dedupe, so consumers are responsible for honoring DedupID.
func (client *NSQClient) Enqueue(topic string, msg *service.QueueMessage) error {
	jsonData, err := msg.ToJSON()
	if err != nil {
		return err
	}
	return client.enqueueBytes(topic, jsonData)
}

func (client *NSQClient) enqueueBytes(topic string, data []byte) error {
	url := fmt.Sprintf("%s/pub?topic=%s", client.URL, topic)
	resp, err := http.Post(url, "application/json", bytes.NewBuffer(data))
	if err != nil {
		return fmt.Errorf("Nsqd returned an error when queuing data: %v", err)
	}
	if resp == nil {
		return fmt.Errorf("No response from nsqd at '%s'. Is it running?", url)
	}

	// nsqd sends a simple OK. We have to read the response body,
	// or the connection will hang open forever.
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()

	if resp.StatusCode != 200 {
		bodyText := "[no response body]"
		if len(body) > 0 {
			bodyText = string(body)
		}
		return fmt.Errorf("nsqd returned status code %d when attempting to queue data. "+
			"Response body: %s", resp.StatusCode, bodyText)
	}
	return nil
}
