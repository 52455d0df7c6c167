package main

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

const passcodeHashCost = 14

type hashPasscodeCmd struct {
	Passcode string `arg:"" help:"Plaintext admin passcode to hash for ADMIN_PASSCODE_HASH."`
}

func (a *hashPasscodeCmd) Run(g *globalCmd) error {
	if len(a.Passcode) < 8 {
		return fmt.Errorf("passcode must be at least 8 characters")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(a.Passcode), passcodeHashCost)
	if err != nil {
		return err
	}
	fmt.Println(string(hash))
	return nil
}
