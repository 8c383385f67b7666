package cache

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDynamoClient(t *testing.T) {
	tests := []struct {
		name     string
		endpoint string
	}{
		{name: "local development setup", endpoint: "http://localhost:8000"},
		{name: "production setup", endpoint: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("AWS_REGION", "us-east-1")

			client, err := NewDynamoClient(context.Background(), tt.endpoint)
			require.NoError(t, err)
			require.NotNil(t, client)

			if tt.endpoint != "" {
				assert.Equal(t, "local", client.Options().Region)
				require.NotNil(t, client.Options().BaseEndpoint)
				assert.Equal(t, tt.endpoint, *client.Options().BaseEndpoint)
			}
		})
	}
}

func TestNewS3Client_LocalEndpoint(t *testing.T) {
	client, err := NewS3Client(context.Background(), "http://localhost:4566")
	require.NoError(t, err)

	opts := client.Options()
	assert.True(t, opts.UsePathStyle)
	assert.Equal(t, "local", opts.Region)
	require.NotNil(t, opts.BaseEndpoint)
	assert.Equal(t, "http://localhost:4566", *opts.BaseEndpoint)
}
