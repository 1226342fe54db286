package types

import "time"

// DetectedObject is a single object recognized in an analyzed image.
type DetectedObject struct {
	Label       string    `json:"label" bson:"label"`
	Confidence  float64   `json:"confidence" bson:"confidence"`
	BBox        []float64 `json:"bbox,omitempty" bson:"bbox,omitempty"`
	Description string    `json:"description,omitempty" bson:"description,omitempty"`
}

// EmotionAnalysis counts the people in the image exhibiting each emotion.
// The values are head counts, not probabilities.
type EmotionAnalysis struct {
	Sorrindo int `json:"sorrindo" bson:"sorrindo"`
	Serio    int `json:"serio" bson:"serio"`
	Triste   int `json:"triste" bson:"triste"`
	Surpreso int `json:"surpreso" bson:"surpreso"`
	Zangado  int `json:"zangado" bson:"zangado"`
	Neutro   int `json:"neutro" bson:"neutro"`
}

// SentimentAnalysis counts people by overall sentiment, same convention
// as EmotionAnalysis.
type SentimentAnalysis struct {
	Positivo int `json:"positivo" bson:"positivo"`
	Neutro   int `json:"neutro" bson:"neutro"`
	Negativo int `json:"negativo" bson:"negativo"`
}

// FoodItem is one food recognized in a nutrition analysis.
type FoodItem struct {
	Name        string  `json:"name" bson:"name"`
	WeightGrams float64 `json:"weight_grams" bson:"weight_grams"`
	Calories    float64 `json:"calories" bson:"calories"`
	Protein     float64 `json:"protein" bson:"protein"`
	Carbs       float64 `json:"carbs" bson:"carbs"`
	Fat         float64 `json:"fat" bson:"fat"`
	Fiber       float64 `json:"fiber" bson:"fiber"`
	Sugar       float64 `json:"sugar" bson:"sugar"`
	Sodium      float64 `json:"sodium" bson:"sodium"`
	Description string  `json:"description,omitempty" bson:"description,omitempty"`
}

// NutritionalAnalysis is the meal-level nutrition breakdown. Numeric
// fields default to zero and list fields to empty so the record is
// well-formed even from partial model output.
type NutritionalAnalysis struct {
	FoodsDetected         []FoodItem      `json:"foods_detected" bson:"foods_detected"`
	TotalCalories         float64         `json:"total_calories" bson:"total_calories"`
	TotalWeightGrams      float64         `json:"total_weight_grams" bson:"total_weight_grams"`
	TotalProtein          float64         `json:"total_protein" bson:"total_protein"`
	TotalCarbs            float64         `json:"total_carbs" bson:"total_carbs"`
	TotalFat              float64         `json:"total_fat" bson:"total_fat"`
	TotalFiber            float64         `json:"total_fiber" bson:"total_fiber"`
	TotalSugar            float64         `json:"total_sugar" bson:"total_sugar"`
	TotalSodium           float64         `json:"total_sodium" bson:"total_sodium"`
	MealType              string          `json:"meal_type" bson:"meal_type"`
	NutritionalSummary    string          `json:"nutritional_summary" bson:"nutritional_summary"`
	QualityScore          float64         `json:"quality_score" bson:"quality_score"`
	HealthRecommendations []string        `json:"health_recommendations" bson:"health_recommendations"`
	DietaryCompatibility  map[string]bool `json:"dietary_compatibility" bson:"dietary_compatibility"`
}

// GeoLocation is the optional client-supplied location of a capture.
type GeoLocation struct {
	Latitude  float64 `json:"latitude" bson:"latitude"`
	Longitude float64 `json:"longitude" bson:"longitude"`
	City      string  `json:"city,omitempty" bson:"city,omitempty"`
	Country   string  `json:"country,omitempty" bson:"country,omitempty"`
}

// Detection is one persisted result of analyzing a single image through
// one task kind. Records are immutable after insertion.
type Detection struct {
	ID              string           `json:"id" bson:"id"`
	Timestamp       time.Time        `json:"timestamp" bson:"-"`
	Source          string           `json:"source" bson:"source"`
	DetectionType   string           `json:"detection_type" bson:"detection_type"`
	ObjectsDetected []DetectedObject `json:"objects_detected" bson:"objects_detected"`
	Description     string           `json:"description" bson:"description"`
	ImageData       string           `json:"image_data,omitempty" bson:"image_data,omitempty"`
	AlertsTriggered []string         `json:"alerts_triggered" bson:"alerts_triggered"`

	EmotionAnalysis     *EmotionAnalysis     `json:"emotion_analysis,omitempty" bson:"emotion_analysis,omitempty"`
	SentimentAnalysis   *SentimentAnalysis   `json:"sentiment_analysis,omitempty" bson:"sentiment_analysis,omitempty"`
	NutritionalAnalysis *NutritionalAnalysis `json:"nutritional_analysis,omitempty" bson:"nutritional_analysis,omitempty"`

	UserID      string       `json:"user_id,omitempty" bson:"user_id,omitempty"`
	GeoLocation *GeoLocation `json:"geo_location,omitempty" bson:"geo_location,omitempty"`
	Category    string       `json:"category,omitempty" bson:"category,omitempty"`
	Tags        []string     `json:"tags" bson:"tags"`
}
