package csvio

import (
	"encoding/csv"
	"io"
	"strconv"

	"github.com/comitanigiacomo/kanso-streaks/internal/core/domain"
)

var streakHeader = []string{"id", "name", "start_date", "end_date", "streak_count", "extra", "active"}

func WriteStreaks(w io.Writer, streaks []domain.Streak) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(streakHeader); err != nil {
		return err
	}

	for _, s := range streaks {
		record := []string{
			strconv.FormatInt(s.ID, 10),
			s.Name,
			domain.FormatDate(s.StartDate),
			domain.FormatDate(s.EndDate),
			strconv.Itoa(s.Count),
			strconv.Itoa(s.Extra),
			pyBool(s.Active),
		}
		if err := writer.Write(record); err != nil {
			return err
		}
	}

	writer.Flush()
	return writer.Error()
}

func pyBool(b bool) string {
	if b {
		return "True"
	}
	return "False"
}
