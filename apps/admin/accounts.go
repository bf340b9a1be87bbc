package main

import (
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"
)

// listAccounts prints the registered accounts and their linked student records.
// The fixed demo accounts are not persisted and do not show up here.
func (cli *commandLine) listAccounts(w io.Writer) error {
	accounts, err := cli.authRepo.QueryAllAccounts()
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 8, 2, ' ', 0)
	fmt.Fprintln(tw, "EMAIL\tSTUDENT ID")
	for _, acct := range accounts {
		studentID := "-"
		if acct.StudentID.Valid {
			studentID = strconv.FormatInt(acct.StudentID.Int64, 10)
		}
		fmt.Fprintf(tw, "%s\t%s\n", acct.Email, studentID)
	}
	return tw.Flush()
}
