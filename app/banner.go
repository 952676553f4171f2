// Copyright 2025 The Rivaas Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package app

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"slices"
	"strings"

	"github.com/charmbracelet/colorprofile"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/common-nighthawk/go-figure"
	"golang.org/x/term"

	"github.com/ooneex/eagle-sub001/router"
)

var methodColors = map[string]string{
	http.MethodGet:     "10",
	http.MethodPost:    "12",
	http.MethodPut:     "11",
	http.MethodDelete:  "9",
	http.MethodPatch:   "13",
	http.MethodHead:    "14",
	http.MethodOptions: "7",
}

// colorWriter downsamples ANSI colours to what w supports. Production strips
// them entirely.
func (a *App) colorWriter(w io.Writer) *colorprofile.Writer {
	cpw := colorprofile.NewWriter(w, os.Environ())
	if a.settings.environment == EnvironmentProduction {
		cpw.Profile = colorprofile.NoTTY
	}

	return cpw
}

func (a *App) printStartupBanner(addr string) {
	if a.settings.bannerOutput == nil {
		return
	}
	w := a.colorWriter(a.settings.bannerOutput)

	gradient := []string{"10", "11"}
	if a.settings.environment == EnvironmentDevelopment {
		gradient = []string{"12", "14", "10", "11"}
	}

	var art strings.Builder
	for _, line := range figure.NewFigure(a.settings.serviceName, "", false).Slicify() {
		for i, r := range line {
			if r == ' ' {
				art.WriteRune(r)
				continue
			}
			style := lipgloss.NewStyle().Foreground(lipgloss.Color(gradient[i%len(gradient)])).Bold(true)
			art.WriteString(style.Render(string(r)))
		}
		art.WriteString("\n")
	}

	category := lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Bold(true)
	label := lipgloss.NewStyle().Foreground(lipgloss.Color("240")).Width(14).PaddingLeft(2)
	value := lipgloss.NewStyle().Foreground(lipgloss.Color("15")).Bold(true)
	disabled := lipgloss.NewStyle().Foreground(lipgloss.Color("240"))

	display := addr
	if strings.HasPrefix(display, ":") {
		display = "0.0.0.0" + display
	}
	display = "http://" + display

	var out strings.Builder
	out.WriteString(category.Render("Service") + "\n")
	out.WriteString(label.Render("Version:") + "  " + value.Foreground(lipgloss.Color("14")).Render(a.settings.serviceVersion) + "\n")
	out.WriteString(label.Render("Environment:") + "  " + value.Foreground(lipgloss.Color("11")).Render(a.settings.environment) + "\n")
	out.WriteString(label.Render("Address:") + "  " + value.Foreground(lipgloss.Color("10")).Render(display) + "\n")

	out.WriteString("\n" + category.Render("Observability") + "\n")
	if a.metrics != nil {
		out.WriteString(label.Render("Metrics:") + "  " + value.Foreground(lipgloss.Color("13")).Render(display+a.settings.metrics.path) + "\n")
	} else {
		out.WriteString(label.Render("Metrics:") + "  " + disabled.Render("Disabled") + "\n")
	}
	if a.tracer != nil {
		out.WriteString(label.Render("Tracing:") + "  " + value.Render(string(a.tracer.Provider())) + "\n")
	} else {
		out.WriteString(label.Render("Tracing:") + "  " + disabled.Render("Disabled") + "\n")
	}
	if h := a.settings.health; h != nil {
		out.WriteString(label.Render("Health:") + "  " + value.Render(h.prefix+h.livezPath+", "+h.prefix+h.readyzPath) + "\n")
	}

	_, _ = fmt.Fprintln(w)
	_, _ = fmt.Fprint(w, art.String())
	_, _ = fmt.Fprintln(w)
	_, _ = fmt.Fprint(w, out.String())

	if a.settings.environment == EnvironmentDevelopment && a.registry.Len() > 0 {
		_, _ = fmt.Fprintln(w)
		a.renderRoutesTable(w, 80)
	}
	_, _ = fmt.Fprintln(w)
}

// methodLabel renders the methods of a route, "*" when it accepts them all.
func methodLabel(methods []string, color bool) string {
	if len(methods) == len(router.Methods) && !slices.ContainsFunc(router.Methods, func(m string) bool {
		return !slices.Contains(methods, m)
	}) {
		return router.AnyMethod
	}

	labels := make([]string, len(methods))
	for i, m := range methods {
		labels[i] = m
		if c, ok := methodColors[m]; ok && color {
			labels[i] = lipgloss.NewStyle().Foreground(lipgloss.Color(c)).Bold(true).Render(m)
		}
	}

	return strings.Join(labels, ",")
}

// renderRoutesTable writes one row per route path.
func (a *App) renderRoutesTable(w io.Writer, width int) {
	routes := a.registry.Routes()
	if len(routes) == 0 {
		return
	}
	color := a.settings.environment == EnvironmentDevelopment

	var rows [][]string
	for _, def := range routes {
		for _, path := range def.Paths {
			rows = append(rows, []string{methodLabel(def.Methods, color), path, def.Name, def.Controller})
		}
	}

	if f, ok := w.(*os.File); ok {
		if tw, _, err := term.GetSize(int(f.Fd())); err == nil && tw > 0 {
			width = min(width, tw)
		}
	}
	width = max(60, width)

	border := lipgloss.NewStyle()
	if color {
		border = border.Foreground(lipgloss.Color("240"))
	}
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(border).
		StyleFunc(func(row, _ int) lipgloss.Style {
			style := lipgloss.NewStyle().Padding(0, 1)
			if row == table.HeaderRow && color {
				style = style.Bold(true).Foreground(lipgloss.Color("230"))
			}
			return style
		}).
		Headers("Method", "Path", "Name", "Controller").
		Rows(rows...).
		Width(width)

	_, _ = fmt.Fprintln(w, t.Render())
}

// PrintRoutes writes the route table to w.
func (a *App) PrintRoutes(w io.Writer) {
	if a.registry.Len() == 0 {
		_, _ = fmt.Fprintln(w, "No routes registered")
		return
	}
	a.renderRoutesTable(a.colorWriter(w), 120)
}
