package dosha

// Option is one selectable answer.
type Option struct {
	Value Dosha  `json:"value"`
	Text  string `json:"text"`
}

// Question is one quiz question.
type Question struct {
	ID       int      `json:"id"`
	Question string   `json:"question"`
	Options  []Option `json:"options"`
}

var questions = []Question{
	{1, "What best describes your body frame?", []Option{
		{Vata, "Thin, light, small-boned"},
		{Pitta, "Medium build, well-proportioned"},
		{Kapha, "Large frame, heavy, well-built"},
	}},
	{2, "How is your appetite typically?", []Option{
		{Vata, "Variable, sometimes forget to eat"},
		{Pitta, "Strong, regular, get irritable when hungry"},
		{Kapha, "Steady, can skip meals easily"},
	}},
	{3, "What describes your sleep pattern?", []Option{
		{Vata, "Light sleeper, tend to wake up easily"},
		{Pitta, "Moderate sleep, wake up refreshed"},
		{Kapha, "Deep sleeper, need 8+ hours"},
	}},
	{4, "How do you handle stress?", []Option{
		{Vata, "Get anxious and worried easily"},
		{Pitta, "Become irritated and angry"},
		{Kapha, "Remain calm but may withdraw"},
	}},
	{5, "What's your energy level like?", []Option{
		{Vata, "Comes in bursts, then crashes"},
		{Pitta, "Steady and intense"},
		{Kapha, "Steady and enduring"},
	}},
	{6, "How is your digestion?", []Option{
		{Vata, "Irregular, sometimes bloated or gassy"},
		{Pitta, "Strong, rarely have digestive issues"},
		{Kapha, "Slow but steady, feel heavy after meals"},
	}},
	{7, "What's your preferred weather?", []Option{
		{Vata, "Warm and humid"},
		{Pitta, "Cool and dry"},
		{Kapha, "Warm and dry"},
	}},
	{8, "How do you make decisions?", []Option{
		{Vata, "Quickly but often change my mind"},
		{Pitta, "Decisively after analyzing facts"},
		{Kapha, "Slowly and deliberately"},
	}},
}

// Questions returns a copy of the quiz catalog.
func Questions() []Question {
	out := make([]Question, len(questions))
	for i, q := range questions {
		q.Options = append([]Option(nil), q.Options...)
		out[i] = q
	}
	return out
}

// HasQuestion reports whether id is part of the catalog.
func HasQuestion(id int) bool {
	for _, q := range questions {
		if q.ID == id {
			return true
		}
	}
	return false
}
