package mood

// Instruction returns a short recommendation guideline for a mood.
func Instruction(m Mood) string {
	switch m {
	case Tired, Stressed, Sad:
		return "Privilegia esperienze calme, sessioni brevi e nessuna pressione."
	case Relaxing:
		return "Sottolinea i ritmi lenti e l'atmosfera distensiva del gioco."
	case Energetic, Competitive:
		return "Metti in risalto azione, ritmo e sfida."
	case Social:
		return "Evidenzia le modalità multigiocatore e cooperative."
	case Bored:
		return "Punta su varietà e novità per catturare l'attenzione."
	case Nostalgic:
		return "Richiama i classici e il legame con i capitoli storici."
	default:
		return ""
	}
}

// Instructions collects the distinct guidelines for the moods among signals.
func Instructions(signals []string) []string {
	seen := make(map[string]bool)
	var out []string
	for _, s := range signals {
		line := Instruction(Mood(s))
		if line != "" && !seen[line] {
			seen[line] = true
			out = append(out, line)
		}
	}
	return out
}
