package main

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambdacontext"
	"github.com/google/uuid"
)

// Handler is the Lambda entry point for an SQS event source mapping.
type Handler struct {
	processor *Processor
}

func NewHandler(processor *Processor) *Handler {
	return &Handler{processor: processor}
}

// Handle always reports success. Failed messages show up only in the
// "failed" count and the logs, so SQS never redelivers them.
func (h *Handler) Handle(ctx context.Context, event events.SQSEvent) (events.APIGatewayProxyResponse, error) {

	invocationID := uuid.NewString()
	if lc, ok := lambdacontext.FromContext(ctx); ok && lc.AwsRequestID != "" {
		invocationID = lc.AwsRequestID
	}

	outcome := h.processor.ProcessBatch(ctx, invocationID, event.Records)

	// Outcome holds two ints, Marshal cannot fail
	body, _ := json.Marshal(outcome)
	return events.APIGatewayProxyResponse{
		StatusCode: http.StatusOK,
		Body:       string(body),
	}, nil
}
