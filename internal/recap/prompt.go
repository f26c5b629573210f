package recap

import (
	"fmt"
	"strconv"
	"strings"

	"tourneyrecap/internal/model"
)

const parNote = "(-2=under, +2=over)"

// BuildPrompt renders the summary as the user message of a recap request.
// Only the to-par value of the chosen scoring convention is included.
func BuildPrompt(summary *model.TournamentSummary, scoreType model.ScoreType) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Tournament: %s, Format: %s:\n", summary.EventName, summary.FormatName))

	for _, p := range summary.TopPlayers {
		sb.WriteString(fmt.Sprintf("Rank %s: %s, To Par: %s, Total Gross: %s\n", p.Rank, p.Name, p.Score, p.Total))
		sb.WriteString(fmt.Sprintf("To Par %s: %s %s\n", scoreType, formatToPar(p.ToPar(scoreType)), parNote))
	}

	return sb.String()
}

func formatToPar(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
