package config

// SampleConfig returns a fully documented configuration file
func SampleConfig() string {
	return `# QRStudio configuration
# Every value can be overridden with an environment variable named
# QRSTUDIO_<SECTION>_<KEY>, e.g. QRSTUDIO_AI_PROVIDER=openai.
version: "1.0"

# Symbol settings the studio starts with
qr:
  value: "https://google.com"
  fg_color: "#000000"
  bg_color: "#ffffff"
  size: 256            # raster edge length in pixels
  level: M             # L (7%), M (15%), Q (25%), H (30%)
  include_margin: true # quiet zone around the symbol

# Content analysis provider
ai:
  provider: gemini     # gemini | openai | ollama
  model: ""            # empty selects the provider default
  endpoint: ""         # base URL override, e.g. http://localhost:11434 for ollama, http://host/v1 for openai
  api_key: ""          # falls back to GEMINI_API_KEY / OPENAI_API_KEY / API_KEY
  timeout: 30s
  max_retries: 3
  temperature: 0       # 0 selects the provider default

# Debounced analysis while typing
analysis:
  enabled: true
  debounce: 1500ms     # quiet period after the last edit
  min_length: 5        # content must be longer than this many characters
  discard_stale: false # drop results of calls superseded by a newer one
  language: bn         # bn | en, used for the UI and the suggestion

# PNG and PDF artifacts
export:
  directory: ""        # empty selects the user's download directory
  compress_pdf: true
  font_file: ""        # TrueType font for PDF text outside cp1252, e.g. Noto Sans Bengali

output:
  default_format: text # text | json | markdown (analyze command)
  color_mode: auto     # auto | always | never
  verbose: false
  log_file: ""         # studio log, empty selects the XDG state directory

ui:
  theme: default       # default | high-contrast | minimal
  show_tips: true
`
}

// MinimalSampleConfig returns a compact configuration with essential settings
func MinimalSampleConfig() string {
	return `version: "1.0"
ai:
  provider: gemini
  api_key: ""
analysis:
  language: bn
export:
  directory: ""
`
}
