package main

import (
	"github.com/trezcool/academia/core"
)

func (cli *commandLine) resetPassword(email, pwd string) error {
	acct, err := cli.authRepo.GetAccountByEmail(core.CleanString(email, true /* lower */))
	if err != nil {
		return err
	}
	if err := acct.SetPassword(pwd); err != nil {
		return err
	}
	if _, err := cli.authRepo.UpdateAccount(acct); err != nil {
		return err
	}
	return nil
}
