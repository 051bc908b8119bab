package infrastructure

import (
	"context"
	"encoding/json"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/aws/aws-sdk-go-v2/service/sns/types"
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	"github.com/novamart/checkout-system/shared/events"
)

var _ events.Publisher = (*SNSNotifier)(nil)

const maxBatchSize = 10

type snsNotification struct {
	ID         string          `json:"id"`
	CheckoutID string          `json:"checkout_id"`
	Kind       string          `json:"kind"`
	Payload    json.RawMessage `json:"payload"`
	EmittedAt  time.Time       `json:"emitted_at"`
}

// SNSNotifier fans checkout events out to an SNS topic as a notification side
// channel. It never participates in the saga itself: a publish failure is
// surfaced to the caller to log, not to retry the checkout.
type SNSNotifier struct {
	client   *sns.Client
	topicArn string
}

// NewSNSNotifier creates a notifier on an explicit SNS client
func NewSNSNotifier(client *sns.Client, topicArn string) *SNSNotifier {
	return &SNSNotifier{client: client, topicArn: topicArn}
}

// NewSNSNotifierFromEnv builds the SNS client from the default AWS config
// chain (works against LocalStack when AWS_ENDPOINT_URL is set)
func NewSNSNotifierFromEnv(ctx context.Context, topicArn string) (*SNSNotifier, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to load AWS config")
	}
	return &SNSNotifier{client: sns.NewFromConfig(cfg), topicArn: topicArn}, nil
}

// Publish sends the events to the topic in batches
func (n *SNSNotifier) Publish(ctx context.Context, evts ...*events.Event) error {
	if len(evts) == 0 {
		return nil
	}

	gr, ctx := errgroup.WithContext(ctx)
	for _, batch := range splitToChunks(evts, maxBatchSize) {
		batch := batch
		gr.Go(func() error {
			return n.batchPublish(ctx, batch)
		})
	}
	return gr.Wait()
}

func (n *SNSNotifier) batchPublish(ctx context.Context, evts []*events.Event) error {
	requests := make([]types.PublishBatchRequestEntry, len(evts))

	for i, event := range evts {
		message := &snsNotification{
			ID:         event.ID.String(),
			CheckoutID: event.CheckoutID.String(),
			Kind:       event.Kind.String(),
			Payload:    event.Payload,
			EmittedAt:  event.EmittedAt,
		}

		body, err := json.Marshal(message)
		if err != nil {
			return errors.Wrap(err, "failed to marshal notification")
		}

		requests[i] = types.PublishBatchRequestEntry{
			Id:      aws.String(event.ID.String()),
			Message: aws.String(string(body)),
			MessageAttributes: map[string]types.MessageAttributeValue{
				"kind": {
					DataType:    aws.String("String"),
					StringValue: aws.String(event.Kind.String()),
				},
				"checkout_id": {
					DataType:    aws.String("String"),
					StringValue: aws.String(event.CheckoutID.String()),
				},
			},
		}
	}

	res, err := n.client.PublishBatch(ctx, &sns.PublishBatchInput{
		TopicArn:                   &n.topicArn,
		PublishBatchRequestEntries: requests,
	})
	if err != nil {
		return errors.Wrap(err, "failed to publish notification batch")
	}
	if len(res.Failed) > 0 {
		return errors.Errorf("%d notifications failed to publish", len(res.Failed))
	}
	return nil
}

// splitToChunks splits slice into chunks of specified size
func splitToChunks[T any](slice []T, chunkSize int) [][]T {
	var chunks [][]T
	for i := 0; i < len(slice); i += chunkSize {
		end := i + chunkSize
		if end > len(slice) {
			end = len(slice)
		}
		chunks = append(chunks, slice[i:end])
	}
	return chunks
}
