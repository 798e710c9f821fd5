package vertex

import (
	"context"
	"fmt"

	aiplatform "cloud.google.com/go/aiplatform/apiv1"
	"cloud.google.com/go/aiplatform/apiv1/aiplatformpb"
	"google.golang.org/api/option"
	"google.golang.org/protobuf/types/known/structpb"

	"linequeue/clients"
)

const DefaultEmbeddingModel = "text-embedding-005"

// VertexEmbedder implements the clients.Embedder interface using a Vertex AI
// prediction endpoint. Documents and queries are embedded with distinct task
// types so both land in the same retrieval space.
type VertexEmbedder struct {
	client    *aiplatform.PredictionClient
	modelName string
}

// NewVertexEmbedder creates an embedder for the given GCP project/location.
// An empty credentials file falls back to application default credentials.
func NewVertexEmbedder(ctx context.Context, projectID, location, model, credentialsFile string) (*VertexEmbedder, error) {
	if projectID == "" {
		return nil, fmt.Errorf("project ID cannot be empty")
	}
	if location == "" {
		location = "us-central1"
	}
	if model == "" {
		model = DefaultEmbeddingModel
	}

	opts := []option.ClientOption{
		option.WithEndpoint(fmt.Sprintf("%s-aiplatform.googleapis.com:443", location)),
	}
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}

	client, err := aiplatform.NewPredictionClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create Vertex AI client: %w", err)
	}

	modelName := fmt.Sprintf("projects/%s/locations/%s/publishers/google/models/%s", projectID, location, model)

	return &VertexEmbedder{
		client:    client,
		modelName: modelName,
	}, nil
}

func (v *VertexEmbedder) EmbedDocument(ctx context.Context, text string) ([]float32, error) {
	return v.embed(ctx, text, "RETRIEVAL_DOCUMENT")
}

func (v *VertexEmbedder) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	return v.embed(ctx, text, "RETRIEVAL_QUERY")
}

func (v *VertexEmbedder) embed(ctx context.Context, text, taskType string) ([]float32, error) {
	instance, err := structpb.NewStruct(map[string]interface{}{
		"content":   text,
		"task_type": taskType,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create instance: %w", err)
	}

	req := &aiplatformpb.PredictRequest{
		Endpoint:  v.modelName,
		Instances: []*structpb.Value{structpb.NewStructValue(instance)},
	}

	resp, err := v.client.Predict(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("failed to get prediction: %w", err)
	}

	if len(resp.Predictions) == 0 {
		return nil, fmt.Errorf("no predictions returned")
	}

	prediction := resp.Predictions[0].GetStructValue()
	embeddings := prediction.GetFields()["embeddings"].GetStructValue()
	values := embeddings.GetFields()["values"].GetListValue().GetValues()

	result := make([]float32, len(values))
	for i, value := range values {
		result[i] = float32(value.GetNumberValue())
	}

	return result, nil
}

// Close releases the underlying gRPC connection.
func (v *VertexEmbedder) Close() error {
	return v.client.Close()
}

var _ clients.Embedder = (*VertexEmbedder)(nil)
