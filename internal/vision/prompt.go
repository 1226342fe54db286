package vision

import (
	"fmt"
	"strings"
)

// Task identifies the requested analysis variant.
type Task string

const (
	TaskScene         Task = "scene"
	TaskObjectSearch  Task = "object_search"
	TaskNutrition     Task = "nutrition"
	TaskTextReading   Task = "text_reading"
	TaskBraille       Task = "braille_reading"
	TaskTrafficSafety Task = "traffic_safety"
	TaskMathPhysics   Task = "math_physics"
)

// PromptParams carries the optional per-task inputs.
type PromptParams struct {
	// SearchQuery is the target of the object-search variant.
	SearchQuery string
	// Mode selects the traffic-safety variant: "navigation" or "crossing".
	Mode string
}

// All model output is narrated to visually impaired Brazilian users.
const languageDirective = "IMPORTANTE: responda sempre em português do Brasil."

// BuildPrompt produces the instruction text for a task. An unknown task
// is a programming error, never a user-facing failure.
func BuildPrompt(task Task, params PromptParams) (string, error) {
	var body string

	switch task {
	case TaskScene:
		body = `Você é um sistema especialista em visão computacional. Analise esta imagem em detalhe:
1. Liste todas as pessoas detectadas (descrição, roupas, ações)
2. Liste todos os objetos detectados (tipo, localização, características)
3. Descreva o ambiente (tipo de local, iluminação, atmosfera)
4. Conte as pessoas por emoção aparente e por sentimento geral

Responda com um JSON exatamente nesta estrutura:
{
  "objects": [{"label": "pessoa", "confidence": 0.95, "description": "descrição detalhada"}],
  "description": "descrição geral da cena",
  "emotion_analysis": {"sorrindo": 0, "serio": 0, "triste": 0, "surpreso": 0, "zangado": 0, "neutro": 0},
  "sentiment_analysis": {"positivo": 0, "neutro": 0, "negativo": 0}
}`

	case TaskObjectSearch:
		body = fmt.Sprintf(`Você é um assistente de localização de objetos para pessoas com deficiência visual.
Procure por "%s" nesta imagem. Se encontrar, descreva a posição relativa (esquerda, centro, direita),
a distância aproximada e instruções de navegação passo a passo até o objeto.

Responda com um JSON exatamente nesta estrutura:
{
  "objects": [{"label": "objeto", "confidence": 0.9, "description": "posição e distância"}],
  "description": "instruções de navegação ou aviso de que o objeto não foi encontrado"
}`, params.SearchQuery)

	case TaskNutrition:
		body = `Você é um nutricionista especialista. Identifique cada alimento na imagem e estime
porções, calorias e macronutrientes com base em tabelas nutricionais padrão.

Responda com um JSON exatamente nesta estrutura:
{
  "foods_detected": [{"name": "alimento", "weight_grams": 0, "calories": 0, "protein": 0, "carbs": 0, "fat": 0, "fiber": 0, "sugar": 0, "sodium": 0}],
  "total_calories": 0,
  "total_weight_grams": 0,
  "total_protein": 0,
  "total_carbs": 0,
  "total_fat": 0,
  "total_fiber": 0,
  "total_sugar": 0,
  "total_sodium": 0,
  "meal_type": "café da manhã|almoço|jantar|lanche",
  "nutritional_summary": "resumo qualitativo da refeição",
  "quality_score": 0,
  "health_recommendations": ["recomendação"],
  "dietary_compatibility": {"vegetariano": false, "vegano": false, "sem_gluten": false, "sem_lactose": false},
  "description": "descrição da refeição para leitura em voz alta"
}`

	case TaskTextReading:
		body = `Você é um leitor de documentos para pessoas com deficiência visual. Transcreva todo o
texto visível na imagem, preservando a ordem de leitura. Se não houver texto, diga isso.

Responda com um JSON exatamente nesta estrutura:
{
  "text": "transcrição completa do texto",
  "description": "a transcrição, pronta para leitura em voz alta"
}`

	case TaskBraille:
		body = `Você é um transcritor de Braille. Identifique as celas Braille na imagem e transcreva o
conteúdo para texto comum. Indique quando a leitura for incerta.

Responda com um JSON exatamente nesta estrutura:
{
  "text": "texto transcrito do Braille",
  "description": "a transcrição, pronta para leitura em voz alta"
}`

	case TaskTrafficSafety:
		if params.Mode == "crossing" {
			body = `Você é um assistente de travessia para pedestres com deficiência visual. Avalie se é
seguro atravessar agora: semáforos, faixa de pedestres, veículos em aproximação e sua distância.

Responda com um JSON exatamente nesta estrutura:
{
  "safe_to_cross": false,
  "objects": [{"label": "veículo", "confidence": 0.9, "description": "posição e movimento"}],
  "description": "instrução curta e direta: atravessar ou aguardar, e por quê"
}`
		} else {
			body = `Você é um assistente de navegação urbana para pedestres com deficiência visual. Descreva
a calçada à frente: obstáculos, desníveis, postes, pessoas e a direção segura a seguir.

Responda com um JSON exatamente nesta estrutura:
{
  "objects": [{"label": "obstáculo", "confidence": 0.9, "description": "posição relativa"}],
  "description": "instruções curtas de navegação"
}`
		}

	case TaskMathPhysics:
		body = `Você é um tutor de matemática e física. Leia o problema ou a expressão na imagem,
explique o raciocínio passo a passo e apresente o resultado.

Responda com um JSON exatamente nesta estrutura:
{
  "description": "explicação completa passo a passo, pronta para leitura em voz alta"
}`

	default:
		return "", fmt.Errorf("unknown task %q", task)
	}

	return strings.Join([]string{body, languageDirective}, "\n\n"), nil
}
