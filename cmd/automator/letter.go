package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"go-startup-automation/internal/analyzer"
	"go-startup-automation/internal/letter"
	"go-startup-automation/internal/models"
	"go-startup-automation/internal/pdf"

	"github.com/kataras/golog"
	"github.com/spf13/cobra"
)

// NewLetterCmd creates the letter command.
func NewLetterCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "letter",
		Short: "Compose a cover letter from a saved listing and description",
		Long: `Letter composes a cover letter without opening a browser. The listing is a
JSON record as found in a run report; the description is plain text, read from
stdin when --description is "-".

Examples:
  automator letter --listing job.json --description job.txt
  automator letter --listing job.json --description - --format pdf --out letter.pdf`,
		Args: cobra.NoArgs,
		RunE: runLetterCmd,
	}

	cmd.Flags().StringP("listing", "l", "", "Listing record JSON file (required)")
	cmd.Flags().StringP("description", "d", "", "Job description text file, or - for stdin")
	cmd.Flags().StringP("format", "f", "md", "Output format: md, html or pdf")
	cmd.Flags().StringP("output", "o", "", "Write to file instead of stdout (required for pdf)")
	_ = cmd.MarkFlagRequired("listing")

	return cmd
}

func runLetterCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	listingPath, _ := cmd.Flags().GetString("listing")
	descPath, _ := cmd.Flags().GetString("description")
	format, _ := cmd.Flags().GetString("format")
	output, _ := cmd.Flags().GetString("output")

	format = strings.ToLower(format)
	switch format {
	case "md", "html":
	case "pdf":
		if output == "" {
			return fmt.Errorf("--output is required for pdf")
		}
	default:
		return fmt.Errorf("unknown format %q", format)
	}

	rec, err := readListing(listingPath)
	if err != nil {
		return err
	}
	description, err := readDescription(descPath, cmd.InOrStdin())
	if err != nil {
		return err
	}

	body := composeLetter(letter.NewComposer(cfg.Profile, golog.Default), rec, description)

	var data []byte
	switch format {
	case "md":
		data = []byte(body)
	default:
		gen, err := pdf.NewGenerator(cfg.LetterTemplate)
		if err != nil {
			return err
		}
		doc := pdf.Document{Applicant: cfg.Profile.Name, Title: rec.Title, Company: rec.Company.Name, Markdown: body}
		if format == "html" {
			data, err = gen.RenderHTML(doc)
		} else {
			data, err = gen.Generate(doc)
		}
		if err != nil {
			return err
		}
	}

	if output == "" {
		_, err = cmd.OutOrStdout().Write(data)
		return err
	}
	if err := pdf.SaveToFile(data, output); err != nil {
		return err
	}
	golog.Infof("✉️ Letter saved to %s", output)
	return nil
}

func composeLetter(c *letter.Composer, rec models.ListingRecord, description string) string {
	return c.Compose(rec, analyzer.Classify(description))
}

func readListing(path string) (models.ListingRecord, error) {
	var rec models.ListingRecord
	data, err := os.ReadFile(path)
	if err != nil {
		return rec, fmt.Errorf("read listing: %w", err)
	}
	if err := json.Unmarshal(data, &rec); err != nil {
		return rec, fmt.Errorf("parse listing %s: %w", path, err)
	}
	return rec, nil
}

// readDescription returns "" when path is empty; the letter then uses default bullets.
func readDescription(path string, stdin io.Reader) (string, error) {
	switch path {
	case "":
		return "", nil
	case "-":
		data, err := io.ReadAll(stdin)
		return string(data), err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read description: %w", err)
	}
	return string(data), nil
}
