package config

import (
	"fmt"
	"os"
	"path/filepath"
)

// TemplateFileName is the page template written by Init.
const TemplateFileName = "template.html"

const starterConfig = `# practicebank configuration
title: "Practice Problems"
description: ""

# Page template. The template may reference {{.Title}}, {{.RelativeRoot}},
# and {{.Body}}. Remove this line to fall back to the built-in minimal shell.
template: template.html

tagsets:
  - title: "All Problems"
    identifier: "all"
    description: "Every problem in this bank."
    tags: __ALL__
`

// starterTemplate typesets math with MathJax and highlights code with
// highlight.js, both loaded from CDNs.
const starterTemplate = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>

<!-- MathJax -->
<script>
  MathJax = {
    tex: {
      inlineMath: [['\\(', '\\)']],
      displayMath: [['\\[', '\\]']],
      processEscapes: true
    }
  };
</script>
<script type="text/javascript" id="MathJax-script" async
  src="https://cdn.jsdelivr.net/npm/mathjax@3/es5/tex-chtml.js">
</script>

<!-- highlight.js -->
<link rel="stylesheet" href="https://cdnjs.cloudflare.com/ajax/libs/highlight.js/11.9.0/styles/default.min.css">
<script src="https://cdnjs.cloudflare.com/ajax/libs/highlight.js/11.9.0/highlight.min.js"></script>
<script>hljs.highlightAll();</script>
</head>
<body>
<nav><a href="{{.RelativeRoot}}/index.html">Home</a></nav>
{{.Body}}
</body>
</html>
`

// Init writes a starter configuration file and page template into the given
// bank root. Existing files are only overwritten when force is set.
func Init(bankRoot string, force bool) error {
	configPath := filepath.Join(bankRoot, FileName)

	if _, err := os.Stat(configPath); err == nil && !force {
		return fmt.Errorf("configuration file already exists: %s (use --force to overwrite)", configPath)
	}

	if err := os.MkdirAll(bankRoot, 0o750); err != nil {
		return fmt.Errorf("failed to create bank directory: %w", err)
	}

	if err := os.WriteFile(configPath, []byte(starterConfig), 0o644); err != nil {
		return err
	}

	templatePath := filepath.Join(bankRoot, TemplateFileName)
	if _, err := os.Stat(templatePath); err == nil && !force {
		return nil
	}
	return os.WriteFile(templatePath, []byte(starterTemplate), 0o644)
}
