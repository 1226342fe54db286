package analysis

import (
	"strings"

	"github.com/aruana-vision/apiserver/internal/vision"
	"github.com/aruana-vision/apiserver/types"
)

const (
	categoryNutrition = "alimentação"
	categoryReading   = "leitura"
	categoryDefault   = "outros"

	maxObjectTags = 5
)

// keywordCategory pairs a category label with the keywords scored
// against the detection text. Declaration order breaks ties.
type keywordCategory struct {
	name     string
	keywords []string
}

var keywordCategories = []keywordCategory{
	{"pessoas", []string{"pessoa", "homem", "mulher", "criança", "rosto", "pedestre", "multidão"}},
	{"animais", []string{"animal", "cachorro", "gato", "pássaro", "cavalo", "peixe"}},
	{"veículos", []string{"carro", "ônibus", "moto", "bicicleta", "caminhão", "veículo"}},
	{"natureza", []string{"árvore", "planta", "flor", "céu", "montanha", "praia", "paisagem"}},
	{"alimentos", []string{"comida", "fruta", "alimento", "prato", "bebida", "refeição"}},
	{"tecnologia", []string{"computador", "celular", "telefone", "tela", "teclado", "televisão"}},
	{"ambientes", []string{"mesa", "cadeira", "sofá", "cama", "porta", "janela", "sala"}},
	{"esportes", []string{"bola", "esporte", "quadra", "futebol", "jogo", "atleta"}},
	{"documentos", []string{"texto", "documento", "livro", "página", "escrita", "letra"}},
	{"trânsito", []string{"rua", "semáforo", "faixa", "trânsito", "calçada", "avenida"}},
	{"vestuário", []string{"roupa", "camisa", "calça", "vestido", "sapato", "bolsa"}},
}

// Categorize assigns one category label to a detection. Nutrition and
// text-reading tasks map to fixed categories; everything else is scored
// by keyword count over the description and object labels, with ties
// broken by declaration order and zero matches falling to the default.
func Categorize(task vision.Task, description string, objects []types.DetectedObject) string {
	switch task {
	case vision.TaskNutrition:
		return categoryNutrition
	case vision.TaskTextReading:
		return categoryReading
	}

	var sb strings.Builder
	sb.WriteString(description)
	for _, obj := range objects {
		sb.WriteString(" ")
		sb.WriteString(obj.Label)
	}
	text := strings.ToLower(sb.String())

	best := categoryDefault
	bestScore := 0
	for _, category := range keywordCategories {
		score := 0
		for _, keyword := range category.keywords {
			if strings.Contains(text, keyword) {
				score++
			}
		}
		if score > bestScore {
			best = category.name
			bestScore = score
		}
	}
	return best
}

// Tags derives the search tags of a detection: its task-kind and source
// tags, up to the first five object labels, one tag per non-zero
// emotion and sentiment dimension, and a city tag when location data is
// present. The result carries no duplicates.
func Tags(det types.Detection) []string {
	tags := []string{}
	seen := map[string]bool{}
	add := func(tag string) {
		tag = strings.ToLower(strings.TrimSpace(tag))
		if tag == "" || seen[tag] {
			return
		}
		seen[tag] = true
		tags = append(tags, tag)
	}

	add(det.DetectionType)
	add(det.Source)

	for i, obj := range det.ObjectsDetected {
		if i >= maxObjectTags {
			break
		}
		add(obj.Label)
	}

	if e := det.EmotionAnalysis; e != nil {
		for tag, n := range map[string]int{
			"sorrindo": e.Sorrindo,
			"serio":    e.Serio,
			"triste":   e.Triste,
			"surpreso": e.Surpreso,
			"zangado":  e.Zangado,
			"neutro":   e.Neutro,
		} {
			if n > 0 {
				add(tag)
			}
		}
	}
	if s := det.SentimentAnalysis; s != nil {
		for tag, n := range map[string]int{
			"positivo": s.Positivo,
			"neutro":   s.Neutro,
			"negativo": s.Negativo,
		} {
			if n > 0 {
				add(tag)
			}
		}
	}

	if det.GeoLocation != nil && det.GeoLocation.City != "" {
		add(det.GeoLocation.City)
	}
	return tags
}
