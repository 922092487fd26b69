package articles

import (
	"strings"
	"testing"
)

func TestParseSourceWithFrontmatter(t *testing.T) {
	raw := `---
title: Robot Buying Guide
slug: robot-buying-guide
collection: Industrial Robots
products:
  - drill-x
  - " saw-y "
draft: true
---
# Guide

Body text.
`
	source, err := ParseSourceString(raw)
	if err != nil {
		t.Fatalf("ParseSourceString: %v", err)
	}
	if source.Meta.Title != "Robot Buying Guide" {
		t.Fatalf("title = %q", source.Meta.Title)
	}
	if !source.Meta.Draft {
		t.Fatal("expected draft flag")
	}
	if got := source.Meta.DefaultCollectionSlug(); got != "industrial-robots" {
		t.Fatalf("DefaultCollectionSlug = %q", got)
	}
	slugs := source.Meta.ExplicitItemSlugs()
	if len(slugs) != 2 || slugs[0] != "drill-x" || slugs[1] != "saw-y" {
		t.Fatalf("ExplicitItemSlugs = %v", slugs)
	}
	if !strings.Contains(source.Body, "# Guide") {
		t.Fatalf("body = %q", source.Body)
	}
	if strings.Contains(source.Body, "title:") {
		t.Fatalf("frontmatter leaked into body: %q", source.Body)
	}
}

func TestParseSourceWithoutFrontmatter(t *testing.T) {
	raw := "just a body\nwith two lines"

	source, err := ParseSourceString(raw)
	if err != nil {
		t.Fatalf("ParseSourceString: %v", err)
	}
	if source.Meta.Title != "" || source.Meta.Collection != "" {
		t.Fatalf("unexpected metadata: %+v", source.Meta)
	}
	if source.Body != raw {
		t.Fatalf("body = %q", source.Body)
	}
}

func TestParseSourceMalformedFrontmatter(t *testing.T) {
	raw := "---\ntitle: [unclosed\n---\nbody"

	if _, err := ParseSourceString(raw); err == nil {
		t.Fatal("expected error for malformed frontmatter")
	}
}

func TestDefaultCollectionSlugEmpty(t *testing.T) {
	meta := SourceMeta{Collection: "   "}
	if got := meta.DefaultCollectionSlug(); got != "" {
		t.Fatalf("DefaultCollectionSlug = %q", got)
	}
}
