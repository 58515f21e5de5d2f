package advisor

// CharacterPhrases mark an info request about a character or concept rather
// than a game; such requests go straight to the web lookup.
var CharacterPhrases = []string{
	"chi è", "cos'è", "cosa è", "chi e", "cos e", "cosa e",
	"mi parli di", "parlami di", "dimmi di", "raccontami di",
	"info su", "informazioni su", "che cos'è", "che cosa è",
}

// DeepKeywords ask for more on a topic already discussed.
var DeepKeywords = []string{
	"approfondisci", "dimmi di più", "altre info", "altre informazioni",
	"dimmi altro", "raccontami di più", "espandi", "più dettagli",
	"più informazioni", "altro su", "altro riguardo",
}

// GeneralInfoKeywords turn small talk into an encyclopedia question when the
// message is long enough.
var GeneralInfoKeywords = []string{
	"cos'è", "cosa è", "chi è", "quando", "dove", "perché", "come",
	"storia di", "storia del", "storia della", "origine", "nascita",
	"quando è nato", "quando è stato creato", "quando è uscito",
}

// generalInfoMinWords is the word count a small talk message must exceed to
// be looked up.
const generalInfoMinWords = 3

// injectionPhrases replace the whole user message with injectionReplacement.
var injectionPhrases = []string{
	"ignore previous", "change your role", "system:", "you are now",
	"forget", "disregard", "override", "jailbreak", "dan mode",
	"you are a", "act as", "pretend to be", "roleplay as",
	"forget all", "ignore all", "new instructions", "new rules",
}

const injectionReplacement = "Parlami dei giochi Nintendo che ti piacciono."

// Canned replies used when generation yields nothing.
const (
	SmallTalkFallback      = "Ciao! Sono qui per aiutarti con i giochi Nintendo! 🎮 Come posso aiutarti oggi?"
	RecommendationFallback = "Mi dispiace, non sono riuscito a generare una raccomandazione. Potresti provare a descrivere meglio il tipo di gioco che cerchi?"
	InfoFallback           = "Mi dispiace, non sono riuscito a recuperare le informazioni richieste. Potresti riprovare con una domanda più specifica?"
	GenericFallback        = "Mi dispiace, c'è stato un problema nella generazione della risposta. Potresti riprovare?"
	ErrorFallback          = "Mi dispiace, c'è stato un errore nella generazione della risposta. Puoi riprovare con una domanda diversa sui giochi Nintendo?"
)

// Favorites replies. The %s verbs take the game title.
const (
	savedReplyFormat   = "✅ Ho salvato '%s' nei tuoi preferiti! Puoi vederlo nella sezione Profilo."
	alreadySavedFormat = "'%s' è già nei tuoi preferiti!"
	nothingToSave      = "Non ho trovato un gioco da salvare. Chiedimi prima informazioni su un gioco specifico!"
	nothingToSaveAfter = "Non ho trovato un gioco da salvare nei preferiti. Chiedimi informazioni su un gioco specifico e poi chiedi di salvarlo!"
	// failureMarker identifies canned failures that a save notice replaces
	// instead of prefixing.
	failureMarker = "non sono riuscito"
)
