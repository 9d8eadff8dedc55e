package processors

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

var (
	htmlStartRegex  = regexp.MustCompile(`(?is)^\s*(<!doctype\s+html|<html|<head|<body|<div|<p[\s>]|<section|<article|<table|<ul|<h[1-6][\s>])`)
	horizontalSpace = regexp.MustCompile(`[ \t\f\v\x{00a0}]+`)
)

// HTMLCleaner reduces pasted HTML (a saved profile page, an exported resume)
// to the visible text a document extractor would have produced
type HTMLCleaner struct {
	// Tags removed with their content
	removeTags []string
	// Tags that end a line of text
	blockTags []string
}

// NewHTMLCleaner creates a new HTML cleaner instance
func NewHTMLCleaner() *HTMLCleaner {
	return &HTMLCleaner{
		removeTags: []string{
			"head", "script", "style", "noscript", "iframe", "object", "embed",
			"svg", "canvas", "template", "form", "button", "select", "nav",
		},
		blockTags: []string{
			"p", "div", "li", "tr", "section", "article", "header", "footer",
			"h1", "h2", "h3", "h4", "h5", "h6", "blockquote", "pre", "dd", "dt",
		},
	}
}

// IsHTML reports whether text starts like an HTML document or fragment
func (hc *HTMLCleaner) IsHTML(text string) bool {
	return htmlStartRegex.MatchString(text)
}

// ToPlainText returns the visible text of html, one block element per line,
// with runs of horizontal whitespace collapsed and blank lines dropped
func (hc *HTMLCleaner) ToPlainText(html string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return "", err
	}

	for _, tag := range hc.removeTags {
		doc.Find(tag).Remove()
	}

	doc.Find("br").ReplaceWithHtml("\n")
	doc.Find("td, th").Each(func(_ int, s *goquery.Selection) {
		s.AppendHtml("\t")
	})
	doc.Find(strings.Join(hc.blockTags, ", ")).Each(func(_ int, s *goquery.Selection) {
		s.PrependHtml("\n")
		s.AppendHtml("\n")
	})

	root := doc.Find("body")
	if root.Length() == 0 {
		root = doc.Selection
	}

	var lines []string
	for _, line := range strings.Split(root.Text(), "\n") {
		line = strings.TrimSpace(horizontalSpace.ReplaceAllString(line, " "))
		if line != "" {
			lines = append(lines, line)
		}
	}
	return strings.Join(lines, "\n"), nil
}
