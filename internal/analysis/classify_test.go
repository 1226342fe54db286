package analysis

import (
	"testing"

	"github.com/aruana-vision/apiserver/internal/vision"
	"github.com/aruana-vision/apiserver/types"
	"github.com/stretchr/testify/assert"
)

func TestCategorizeFixedCategories(t *testing.T) {
	assert.Equal(t, "alimentação", Categorize(vision.TaskNutrition, "qualquer coisa", nil))
	assert.Equal(t, "leitura", Categorize(vision.TaskTextReading, "qualquer coisa", nil))
}

func TestCategorizeByKeywords(t *testing.T) {
	objects := []types.DetectedObject{
		{Label: "carro", Confidence: 0.9},
		{Label: "ônibus", Confidence: 0.8},
	}
	category := Categorize(vision.TaskScene, "um carro e um ônibus na avenida", objects)
	assert.Equal(t, "veículos", category)
}

func TestCategorizeDefaultsWhenNoMatch(t *testing.T) {
	category := Categorize(vision.TaskScene, "xyz abc", nil)
	assert.Equal(t, "outros", category)
}

func TestCategorizeIsDeterministic(t *testing.T) {
	objects := []types.DetectedObject{{Label: "pessoa", Confidence: 0.9}}
	first := Categorize(vision.TaskScene, "uma pessoa na rua", objects)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, Categorize(vision.TaskScene, "uma pessoa na rua", objects))
	}
}

func TestTags(t *testing.T) {
	det := types.Detection{
		Source:        "Camera",
		DetectionType: "scene",
		ObjectsDetected: []types.DetectedObject{
			{Label: "Pessoa", Confidence: 0.9},
			{Label: "cadeira", Confidence: 0.8},
		},
		EmotionAnalysis:   &types.EmotionAnalysis{Sorrindo: 2},
		SentimentAnalysis: &types.SentimentAnalysis{Positivo: 2},
		GeoLocation:       &types.GeoLocation{City: "Manaus"},
	}

	tags := Tags(det)

	assert.Contains(t, tags, "scene")
	assert.Contains(t, tags, "camera")
	assert.Contains(t, tags, "pessoa")
	assert.Contains(t, tags, "cadeira")
	assert.Contains(t, tags, "sorrindo")
	assert.Contains(t, tags, "positivo")
	assert.Contains(t, tags, "manaus")
}

func TestTagsNoDuplicates(t *testing.T) {
	det := types.Detection{
		Source:        "camera",
		DetectionType: "camera",
		ObjectsDetected: []types.DetectedObject{
			{Label: "camera", Confidence: 0.9},
		},
	}

	tags := Tags(det)
	assert.Equal(t, []string{"camera"}, tags)
}

func TestTagsCapsObjectLabels(t *testing.T) {
	det := types.Detection{
		Source:        "camera",
		DetectionType: "scene",
		ObjectsDetected: []types.DetectedObject{
			{Label: "a"}, {Label: "b"}, {Label: "c"}, {Label: "d"},
			{Label: "e"}, {Label: "f"}, {Label: "g"},
		},
	}

	tags := Tags(det)
	assert.Contains(t, tags, "e")
	assert.NotContains(t, tags, "f")
	assert.NotContains(t, tags, "g")
}

func TestTagsEmptyDetection(t *testing.T) {
	tags := Tags(types.Detection{})
	assert.NotNil(t, tags)
	assert.Empty(t, tags)
}
