package packager

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/tidwall/jsonc"

	"github.com/shinji-kodama/template-repo/internal/fsutil"
	"github.com/shinji-kodama/template-repo/internal/model"
)

// devContainerConfig is the dev container definition inside the scaffold,
// relative to the workspace root.
var devContainerConfig = filepath.Join(".devcontainer", "devcontainer.json")

// RenameDevContainer sets the "name" field of the workspace's
// .devcontainer/devcontainer.json to templateName. It is a no-op when the
// scaffold carries no dev container.
//
// The dev container name is what VS Code and Codespaces show for the
// environment, so a package named "Loops Practice" opens as "Loops
// Practice" instead of the scaffold's generic name.
//
// Only the workspace copy is rewritten; the template-files root is never
// modified.
func (p *Packager) RenameDevContainer(workspace, templateName string) error {
	path := filepath.Join(workspace, devContainerConfig)
	if !fsutil.IsFile(path) {
		return nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return model.WrapCLIError(model.KindFilesystem, "failed to read devcontainer.json", err)
	}

	rewritten, err := RewriteDevContainerName(raw, templateName)
	if err != nil {
		return err
	}

	if err := os.WriteFile(path, rewritten, 0o644); err != nil {
		return model.WrapCLIError(model.KindFilesystem, "failed to write devcontainer.json", err)
	}
	p.logger.Debug("renamed dev container", "name", templateName)
	return nil
}

// RewriteDevContainerName returns rawJSON with its top-level "name"
// replaced, re-serialized with two-space indentation.
//
// Processing steps:
//  1. Convert JSONC to plain JSON with jsonc.ToJSON. Comments and trailing
//     commas, which devcontainer.json files commonly use, are stripped.
//  2. Unmarshal into map[string]interface{} rather than a typed struct,
//     so every field this package does not know about survives.
//  3. Set "name" and marshal back.
//
// Comments and key order are not preserved; encoding/json writes keys in
// sorted order. Input that is not a JSON object (including null) is a
// package-invalid error.
func RewriteDevContainerName(rawJSON []byte, name string) ([]byte, error) {
	// Steps 1 and 2.
	var configMap map[string]interface{}
	if err := json.Unmarshal(jsonc.ToJSON(rawJSON), &configMap); err != nil {
		return nil, model.WrapCLIError(model.KindPackageInvalid, "failed to parse devcontainer.json", err)
	}
	if configMap == nil {
		return nil, model.NewCLIError(model.KindPackageInvalid, "devcontainer.json is not a JSON object")
	}

	// Step 3.
	configMap["name"] = name

	out, err := json.MarshalIndent(configMap, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to serialize devcontainer.json: %w", err)
	}
	return append(out, '\n'), nil
}
