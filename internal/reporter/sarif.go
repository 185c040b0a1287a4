package reporter

import (
	"encoding/json"
	"fmt"

	"github.com/ethanolivertroy/dep-inventory/internal/models"
)

// missingRuleID identifies the only rule reported: a required dependency that
// is not installed.
const missingRuleID = "DEPINV001"

// SARIFReporter outputs missing required dependencies in SARIF format for
// GitHub Code Scanning
type SARIFReporter struct {
	ToolVersion string
}

// SARIF structures
type sarifReport struct {
	Schema  string     `json:"$schema"`
	Version string     `json:"version"`
	Runs    []sarifRun `json:"runs"`
}

type sarifRun struct {
	Tool    sarifTool     `json:"tool"`
	Results []sarifResult `json:"results"`
}

type sarifTool struct {
	Driver sarifDriver `json:"driver"`
}

type sarifDriver struct {
	Name           string      `json:"name"`
	Version        string      `json:"version"`
	InformationURI string      `json:"informationUri"`
	Rules          []sarifRule `json:"rules"`
}

type sarifRule struct {
	ID               string          `json:"id"`
	Name             string          `json:"name"`
	ShortDescription sarifText       `json:"shortDescription"`
	FullDescription  sarifText       `json:"fullDescription"`
	Help             sarifText       `json:"help"`
	DefaultConfig    sarifRuleConfig `json:"defaultConfiguration"`
	Properties       sarifProperties `json:"properties"`
}

type sarifText struct {
	Text string `json:"text"`
}

type sarifRuleConfig struct {
	Level string `json:"level"`
}

type sarifProperties struct {
	Tags []string `json:"tags"`
}

type sarifResult struct {
	RuleID              string            `json:"ruleId"`
	RuleIndex           int               `json:"ruleIndex"`
	Level               string            `json:"level"`
	Message             sarifText         `json:"message"`
	Locations           []sarifLocation   `json:"locations,omitempty"`
	PartialFingerprints map[string]string `json:"partialFingerprints"`
}

type sarifLocation struct {
	PhysicalLocation sarifPhysicalLocation `json:"physicalLocation"`
}

type sarifPhysicalLocation struct {
	ArtifactLocation sarifArtifact `json:"artifactLocation"`
	Region           *sarifRegion  `json:"region,omitempty"`
}

type sarifArtifact struct {
	URI string `json:"uri"`
}

type sarifRegion struct {
	StartLine int `json:"startLine"`
}

// Report generates SARIF output for the given entries
func (r *SARIFReporter) Report(entries []models.Entry) ([]byte, error) {
	version := r.ToolVersion
	if version == "" {
		version = "dev"
	}

	report := sarifReport{
		Schema:  "https://json.schemastore.org/sarif-2.1.0.json",
		Version: "2.1.0",
		Runs: []sarifRun{{
			Tool: sarifTool{
				Driver: sarifDriver{
					Name:           "dep-inventory",
					Version:        version,
					InformationURI: "https://github.com/ethanolivertroy/dep-inventory",
					Rules:          []sarifRule{missingRule()},
				},
			},
			Results: r.buildResults(entries),
		}},
	}

	return json.MarshalIndent(report, "", "  ")
}

func missingRule() sarifRule {
	return sarifRule{
		ID:   missingRuleID,
		Name: "MissingRequiredDependency",
		ShortDescription: sarifText{
			Text: "Required dependency is not installed",
		},
		FullDescription: sarifText{
			Text: "A dependency declared as required was not found in the installed-package registry.",
		},
		Help: sarifText{
			Text: "Install the dependency into the active environment or remove the declaration.",
		},
		DefaultConfig: sarifRuleConfig{Level: "error"},
		Properties: sarifProperties{
			Tags: []string{"dependencies", "environment"},
		},
	}
}

func (r *SARIFReporter) buildResults(entries []models.Entry) []sarifResult {
	results := []sarifResult{}

	for _, e := range entries {
		if !e.Missing() {
			continue
		}

		msg := fmt.Sprintf("Required dependency %s is not installed", e.Package.PackageName)
		result := sarifResult{
			RuleID:    missingRuleID,
			RuleIndex: 0,
			Level:     "error",
			Message:   sarifText{Text: msg},
			PartialFingerprints: map[string]string{
				"primaryLocationLineHash": fmt.Sprintf("%s:%s", e.Package.PackageName, missingRuleID),
			},
		}

		if d := e.Declaration; d != nil && d.SourceFile != "" {
			location := sarifLocation{
				PhysicalLocation: sarifPhysicalLocation{
					ArtifactLocation: sarifArtifact{URI: d.SourceFile},
				},
			}
			if d.Line > 0 {
				location.PhysicalLocation.Region = &sarifRegion{StartLine: d.Line}
			}
			result.Locations = []sarifLocation{location}
		}

		results = append(results, result)
	}

	return results
}
