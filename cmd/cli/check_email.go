package main

import (
	"encoding/json"
	"errors"
	"io"
	"strings"

	"github.com/akeren/jobtracker-api/config"
	"github.com/akeren/jobtracker-api/internal/log"
	"github.com/akeren/jobtracker-api/pkg/spamcheck"
)

type emailReport struct {
	Email        string   `json:"email"`
	FormatValid  bool     `json:"formatValid"`
	IsDisposable bool     `json:"isDisposable"`
	IsSuspicious bool     `json:"isSuspicious"`
	Reasons      []string `json:"reasons"`
}

func runCheckEmail(logger *log.Logger, out io.Writer, args []string) error {
	if len(args) != 1 || strings.TrimSpace(args[0]) == "" {
		return errors.New("usage: cli check-email <email>")
	}

	policy, err := config.LoadPolicy(logger)
	if err != nil {
		return err
	}

	return writeEmailReport(out, spamcheck.NewEmailClassifier(policy), strings.TrimSpace(args[0]))
}

func writeEmailReport(out io.Writer, classifier *spamcheck.EmailClassifier, email string) error {
	verdict := classifier.Classify(email)

	report := emailReport{
		Email:        email,
		FormatValid:  verdict.FormatValid,
		IsDisposable: verdict.IsDisposable,
		IsSuspicious: verdict.IsSuspicious,
		Reasons:      verdict.Reasons,
	}
	if report.Reasons == nil {
		report.Reasons = []string{}
	}

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(report)
}
