package launcher

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"text/template"

	"sigsetup/internal/domain"
)

// applicationsDir is where CopyToApplications installs bundles.
const applicationsDir = "/Applications"

var infoPlistTmpl = template.Must(template.New("plist").Parse(`<?xml version="1.0" encoding="UTF-8"?>
<!DOCTYPE plist PUBLIC "-//Apple//DTD PLIST 1.0//EN" "http://www.apple.com/DTDs/PropertyList-1.0.dtd">
<plist version="1.0">
<dict>
	<key>CFBundleExecutable</key>
	<string>{{.Executable}}</string>
	<key>CFBundleIdentifier</key>
	<string>org.sigsetup.{{.Identifier}}</string>
	<key>CFBundleName</key>
	<string>{{.Name}}</string>
	<key>CFBundlePackageType</key>
	<string>APPL</string>
	<key>CFBundleVersion</key>
	<string>1.0</string>
</dict>
</plist>
`))

var shimTmpl = template.Must(template.New("shim").Parse(`#!/bin/sh
exec {{.SignalBinary}} --user-data-dir={{.ProfileDir}} "$@"
`))

// Builder writes Signal Desktop launcher bundles.
type Builder struct {
	// SignalBinary is the real Signal Desktop executable the shim execs.
	SignalBinary string
	// OutputDir is where bundles are written (current directory when empty).
	OutputDir string
}

// AppName derives the bundle name: Signal-<nickname>.app, or
// Signal-<digits>.app when no nickname is given.
func AppName(number domain.PhoneNumber, nickname string) string {
	name := strings.TrimSpace(nickname)
	if name == "" {
		name = number.Digits()
	}
	return "Signal-" + name + ".app"
}

// Build writes the bundle and returns its path.
func (b *Builder) Build(number domain.PhoneNumber, nickname, profileDir string) (string, error) {
	appName := AppName(number, nickname)
	outDir := b.OutputDir
	if outDir == "" {
		outDir = "."
	}
	appPath := filepath.Join(outDir, appName)

	macOSDir := filepath.Join(appPath, "Contents", "MacOS")
	if err := os.MkdirAll(macOSDir, 0o755); err != nil {
		return "", fmt.Errorf("creating bundle: %w", err)
	}

	exe := strings.TrimSuffix(appName, ".app")

	plist, err := os.Create(filepath.Join(appPath, "Contents", "Info.plist"))
	if err != nil {
		return "", err
	}
	err = infoPlistTmpl.Execute(plist, map[string]string{
		"Executable": exe,
		"Identifier": number.Digits(),
		"Name":       exe,
	})
	if cerr := plist.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return "", fmt.Errorf("writing Info.plist: %w", err)
	}

	shim, err := os.OpenFile(filepath.Join(macOSDir, exe), os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o755)
	if err != nil {
		return "", err
	}
	err = shimTmpl.Execute(shim, map[string]string{
		"SignalBinary": shellQuote(b.SignalBinary),
		"ProfileDir":   shellQuote(profileDir),
	})
	if cerr := shim.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return "", fmt.Errorf("writing launcher shim: %w", err)
	}

	return appPath, nil
}

// CopyToApplications copies a built bundle into /Applications.
func CopyToApplications(appPath string) (string, error) {
	dest := filepath.Join(applicationsDir, filepath.Base(appPath))
	if err := copyTree(appPath, dest); err != nil {
		return "", fmt.Errorf("copying %s to %s: %w", filepath.Base(appPath), applicationsDir, err)
	}
	return dest, nil
}

// copyTree copies src into dest, preserving file modes.
func copyTree(src, dest string) error {
	return filepath.WalkDir(src, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}
		target := filepath.Join(dest, rel)
		info, err := d.Info()
		if err != nil {
			return err
		}
		if d.IsDir() {
			return os.MkdirAll(target, info.Mode().Perm())
		}
		b, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		return os.WriteFile(target, b, info.Mode().Perm())
	})
}

// shellQuote single-quotes s for the shim script.
func shellQuote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}
