package retriever

import (
	"os"
	"testing"
)

func TestLoadRetrieverConfigDefaults(t *testing.T) {
	os.Unsetenv("RETRIEVAL_TOP_K")                //nolint:errcheck // test cleanup
	os.Unsetenv("RETRIEVAL_SIMILARITY_THRESHOLD") //nolint:errcheck // test cleanup

	config := loadRetrieverConfig()

	if config.TopK != defaultTopK {
		t.Errorf("expected default top K %d, got %d", defaultTopK, config.TopK)
	}

	if config.Threshold != defaultThreshold {
		t.Errorf("expected default threshold %v, got %v", float32(defaultThreshold), config.Threshold)
	}
}

func TestLoadRetrieverConfigOverrides(t *testing.T) {
	os.Setenv( //nolint:errcheck // test fixture
	"RETRIEVAL_TOP_K", "10")
	os.Setenv( //nolint:errcheck // test fixture
	"RETRIEVAL_SIMILARITY_THRESHOLD", "0.55")
	defer os.Unsetenv( //nolint:errcheck // test cleanup
	"RETRIEVAL_TOP_K")
	defer os.Unsetenv( //nolint:errcheck // test cleanup
	"RETRIEVAL_SIMILARITY_THRESHOLD")

	config := loadRetrieverConfig()

	if config.TopK != 10 {
		t.Errorf("expected top K 10, got %d", config.TopK)
	}

	if config.Threshold != 0.55 {
		t.Errorf("expected threshold 0.55, got %v", config.Threshold)
	}
}

func TestLoadRetrieverConfigRejectsInvalid(t *testing.T) {
	os.Setenv( //nolint:errcheck // test fixture
	"RETRIEVAL_TOP_K", "-3")
	os.Setenv( //nolint:errcheck // test fixture
	"RETRIEVAL_SIMILARITY_THRESHOLD", "1.7")
	defer os.Unsetenv( //nolint:errcheck // test cleanup
	"RETRIEVAL_TOP_K")
	defer os.Unsetenv( //nolint:errcheck // test cleanup
	"RETRIEVAL_SIMILARITY_THRESHOLD")

	config := loadRetrieverConfig()

	if config.TopK != defaultTopK {
		t.Errorf("negative top K should fall back to default, got %d", config.TopK)
	}

	if config.Threshold != defaultThreshold {
		t.Errorf("out-of-range threshold should fall back to default, got %v", config.Threshold)
	}
}
