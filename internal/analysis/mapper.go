package analysis

import (
	"github.com/aruana-vision/apiserver/internal/vision"
	"github.com/aruana-vision/apiserver/types"
)

// Apply maps a parsed model result onto the detection record for the
// requested task. Malformed sub-fields are dropped or defaulted, never
// fatal: only a total absence of parseable content leaves the raw model
// text as the description.
func Apply(det *types.Detection, task vision.Task, res vision.Result) {
	det.Description = res.Description()

	switch task {
	case vision.TaskScene, vision.TaskObjectSearch, vision.TaskTrafficSafety:
		det.ObjectsDetected = mapObjects(res)
		if task != vision.TaskTrafficSafety {
			det.EmotionAnalysis = mapEmotions(res)
			det.SentimentAnalysis = mapSentiments(res)
		}

	case vision.TaskNutrition:
		det.NutritionalAnalysis = mapNutrition(res)

	case vision.TaskTextReading:
		// A single pseudo-object carries the transcription so text
		// readings flow through alerting and tagging like any other
		// detection.
		text := res.String("text")
		if text == "" {
			text = det.Description
		}
		det.ObjectsDetected = []types.DetectedObject{{
			Label:       "texto",
			Confidence:  1.0,
			Description: text,
		}}
		if res.String("description") == "" && res.String("text") != "" {
			det.Description = text
		}

	case vision.TaskBraille, vision.TaskMathPhysics:
		if res.String("description") == "" {
			if text := res.String("text"); text != "" {
				det.Description = text
			}
		}
	}

	if det.ObjectsDetected == nil {
		det.ObjectsDetected = []types.DetectedObject{}
	}
}

// mapObjects coerces the "objects" array. Items without a numeric
// confidence are skipped, not fatal to the whole request.
func mapObjects(res vision.Result) []types.DetectedObject {
	objects := []types.DetectedObject{}
	if !res.Structured {
		return objects
	}

	items, ok := res.Fields["objects"].([]any)
	if !ok {
		return objects
	}

	for _, item := range items {
		fields, ok := item.(map[string]any)
		if !ok {
			continue
		}
		label, ok := fields["label"].(string)
		if !ok || label == "" {
			continue
		}
		confidence, ok := fields["confidence"].(float64)
		if !ok {
			continue
		}

		obj := types.DetectedObject{Label: label, Confidence: confidence}
		if desc, ok := fields["description"].(string); ok {
			obj.Description = desc
		}
		if rawBox, ok := fields["bbox"].([]any); ok && len(rawBox) == 4 {
			box := make([]float64, 0, 4)
			for _, coord := range rawBox {
				value, ok := coord.(float64)
				if !ok {
					box = nil
					break
				}
				box = append(box, value)
			}
			obj.BBox = box
		}
		objects = append(objects, obj)
	}
	return objects
}

// mapEmotions builds the per-emotion head counts. Absent sub-object
// means the field stays nil, not zero-filled.
func mapEmotions(res vision.Result) *types.EmotionAnalysis {
	fields, ok := subObject(res, "emotion_analysis")
	if !ok {
		return nil
	}
	return &types.EmotionAnalysis{
		Sorrindo: count(fields, "sorrindo"),
		Serio:    count(fields, "serio"),
		Triste:   count(fields, "triste"),
		Surpreso: count(fields, "surpreso"),
		Zangado:  count(fields, "zangado"),
		Neutro:   count(fields, "neutro"),
	}
}

func mapSentiments(res vision.Result) *types.SentimentAnalysis {
	fields, ok := subObject(res, "sentiment_analysis")
	if !ok {
		return nil
	}
	return &types.SentimentAnalysis{
		Positivo: count(fields, "positivo"),
		Neutro:   count(fields, "neutro"),
		Negativo: count(fields, "negativo"),
	}
}

// mapNutrition always returns a well-formed analysis, defaulting absent
// fields to their zero or empty form.
func mapNutrition(res vision.Result) *types.NutritionalAnalysis {
	analysis := &types.NutritionalAnalysis{
		FoodsDetected:         []types.FoodItem{},
		HealthRecommendations: []string{},
		DietaryCompatibility:  map[string]bool{},
	}
	if !res.Structured {
		return analysis
	}

	if items, ok := res.Fields["foods_detected"].([]any); ok {
		for _, item := range items {
			fields, ok := item.(map[string]any)
			if !ok {
				continue
			}
			name, ok := fields["name"].(string)
			if !ok || name == "" {
				continue
			}
			analysis.FoodsDetected = append(analysis.FoodsDetected, types.FoodItem{
				Name:        name,
				WeightGrams: number(fields, "weight_grams"),
				Calories:    number(fields, "calories"),
				Protein:     number(fields, "protein"),
				Carbs:       number(fields, "carbs"),
				Fat:         number(fields, "fat"),
				Fiber:       number(fields, "fiber"),
				Sugar:       number(fields, "sugar"),
				Sodium:      number(fields, "sodium"),
				Description: stringOr(fields, "description"),
			})
		}
	}

	analysis.TotalCalories = number(res.Fields, "total_calories")
	analysis.TotalWeightGrams = number(res.Fields, "total_weight_grams")
	analysis.TotalProtein = number(res.Fields, "total_protein")
	analysis.TotalCarbs = number(res.Fields, "total_carbs")
	analysis.TotalFat = number(res.Fields, "total_fat")
	analysis.TotalFiber = number(res.Fields, "total_fiber")
	analysis.TotalSugar = number(res.Fields, "total_sugar")
	analysis.TotalSodium = number(res.Fields, "total_sodium")
	analysis.MealType = stringOr(res.Fields, "meal_type")
	analysis.NutritionalSummary = stringOr(res.Fields, "nutritional_summary")
	analysis.QualityScore = number(res.Fields, "quality_score")

	if recs, ok := res.Fields["health_recommendations"].([]any); ok {
		for _, rec := range recs {
			if text, ok := rec.(string); ok && text != "" {
				analysis.HealthRecommendations = append(analysis.HealthRecommendations, text)
			}
		}
	}
	if compat, ok := res.Fields["dietary_compatibility"].(map[string]any); ok {
		for diet, value := range compat {
			if flag, ok := value.(bool); ok {
				analysis.DietaryCompatibility[diet] = flag
			}
		}
	}
	return analysis
}

func subObject(res vision.Result, key string) (map[string]any, bool) {
	if !res.Structured {
		return nil, false
	}
	fields, ok := res.Fields[key].(map[string]any)
	return fields, ok
}

func count(fields map[string]any, key string) int {
	value, ok := fields[key].(float64)
	if !ok || value < 0 {
		return 0
	}
	return int(value)
}

func number(fields map[string]any, key string) float64 {
	value, _ := fields[key].(float64)
	return value
}

func stringOr(fields map[string]any, key string) string {
	value, _ := fields[key].(string)
	return value
}
