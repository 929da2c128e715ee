package handler

import (
	"bufio"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/userdir/userdir/internal/model"
)

var csvHeader = []string{"id", "name", "email", "role", "status", "createdAt", "updatedAt"}

// writeUsersCSV writes users as CSV. The header row is bare; every value
// is wrapped in double quotes with embedded quotes doubled.
func writeUsersCSV(w io.Writer, users []model.User) error {
	bw := bufio.NewWriter(w)

	if _, err := bw.WriteString(strings.Join(csvHeader, ",") + "\n"); err != nil {
		return err
	}

	for _, u := range users {
		updated := ""
		if u.UpdatedAt != nil {
			updated = u.UpdatedAt.UTC().Format(time.RFC3339Nano)
		}

		row := []string{
			strconv.FormatInt(u.ID, 10),
			u.Name,
			u.Email,
			string(u.Role),
			string(u.Status),
			u.CreatedAt.UTC().Format(time.RFC3339Nano),
			updated,
		}
		for i, v := range row {
			row[i] = quoteCSV(v)
		}
		if _, err := bw.WriteString(strings.Join(row, ",") + "\n"); err != nil {
			return err
		}
	}

	return bw.Flush()
}

func quoteCSV(v string) string {
	return `"` + strings.ReplaceAll(v, `"`, `""`) + `"`
}
