// Package dockerfile renders the image recipes for the web app: a
// builder stage that compiles a static release binary and a slim runtime
// stage carrying the binary plus its asset directories.
package dockerfile

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"

	"github.com/jusmoore/shipyard/internal/core/domain"
)

// bases holds the image tags that differ between the two variants.
type bases struct {
	Builder string
	Runtime string
	// Packages installs runtime packages. Empty for variants whose
	// runtime base already ships CA certificates.
	Packages string
}

var variants = map[domain.Variant]bases{
	domain.VariantBookworm: {
		Builder: "golang:1.24-bookworm",
		Runtime: "debian:bookworm-slim",
		Packages: "RUN apt-get update && apt-get install -y --no-install-recommends ca-certificates \\\n" +
			"    && rm -rf /var/lib/apt/lists/*",
	},
	domain.VariantAlpine: {
		Builder:  "golang:1.24-alpine",
		Runtime:  "alpine:3.21",
		Packages: "RUN apk add --no-cache ca-certificates",
	},
}

var tmpl = template.Must(template.New("dockerfile").Parse(`FROM {{.Builder}} AS builder

WORKDIR /src

COPY go.mod go.sum ./
RUN go mod download

COPY . .
RUN CGO_ENABLED=0 GOOS=linux go build -ldflags='-s -w' -o {{.BinaryPath}} ./cmd/server

FROM {{.Runtime}}
{{if .Packages}}
{{.Packages}}
{{end}}
WORKDIR {{.AppDir}}

COPY --from=builder {{.BinaryPath}} {{.BinaryPath}}
COPY static {{.StaticDir}}
COPY templates {{.TemplatesDir}}

EXPOSE {{.Port}}

ENTRYPOINT ["{{.BinaryPath}}"]
`))

// Render produces the Dockerfile text for a variant.
func Render(v domain.Variant) (string, error) {
	b, ok := variants[v]
	if !ok {
		return "", fmt.Errorf("unknown image variant %q", v)
	}
	var buf bytes.Buffer
	err := tmpl.Execute(&buf, struct {
		bases
		BinaryPath   string
		AppDir       string
		StaticDir    string
		TemplatesDir string
		Port         int
	}{
		bases:        b,
		BinaryPath:   domain.BinaryPath,
		AppDir:       domain.AppDir,
		StaticDir:    domain.StaticDir,
		TemplatesDir: domain.TemplatesDir,
		Port:         domain.ListenPort,
	})
	if err != nil {
		return "", fmt.Errorf("failed to render dockerfile: %w", err)
	}
	return buf.String(), nil
}

// Filename is the conventional on-disk name for a variant's recipe. The
// bookworm variant is the default Dockerfile; others get a suffix.
func Filename(v domain.Variant) string {
	if v == domain.VariantBookworm {
		return "Dockerfile"
	}
	return "Dockerfile." + string(v)
}

// Variants lists the supported variants in a stable order.
func Variants() []domain.Variant {
	return []domain.Variant{domain.VariantBookworm, domain.VariantAlpine}
}

// ExposedPort scans a rendered recipe for its EXPOSE directive. It
// returns -1 when none is declared.
func ExposedPort(content string) int {
	for _, line := range strings.Split(content, "\n") {
		fields := strings.Fields(strings.TrimSpace(line))
		if len(fields) == 2 && strings.EqualFold(fields[0], "EXPOSE") {
			var port int
			if _, err := fmt.Sscanf(fields[1], "%d", &port); err == nil {
				return port
			}
		}
	}
	return -1
}
