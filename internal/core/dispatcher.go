package core

import (
	"context"
	"fmt"
	"path/filepath"
	"slices"
	"strconv"

	assert "github.com/ZanzyTHEbar/assert-lib"
	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/rs/zerolog/log"

	"framework-kit/internal/policies"
	"framework-kit/internal/ports"
	"framework-kit/internal/shared"
	"framework-kit/internal/types"
)

// Invocation is everything one manifest application needs besides the
// manifest itself.
type Invocation struct {
	Project  types.ProjectRoot
	Package  types.PackageRecord
	Files    ports.ProjectFilesPort
	Policy   ports.PlatformPolicyPort
	Recorder *Recorder
}

type handler func(d Dispatcher, c call) ([]string, bool, error)

// route binds a command to its handler. targets maps each platform the
// command understands to the unit it runs against; platforms sharing a
// target run once. Shared routes ignore the platform list.
type route struct {
	targets map[types.PlatformID]types.Target
	shared  bool
	run     handler
}

type call struct {
	inv      Invocation
	op       types.Operation
	platform types.PlatformID
	target   types.Target
}

// Dispatcher interprets install manifests against a project.
type Dispatcher struct {
	xcode   XcodePatcher
	android AndroidPatcher
	msbuild MSBuildPatcher
	entry   EntryPatcher
	routes  map[types.CommandKind]route
}

func NewDispatcher(xcode XcodePatcher) Dispatcher {
	perPlatform := map[types.PlatformID]types.Target{
		types.PlatformIOS:     types.TargetIOS,
		types.PlatformMac:     types.TargetMac,
		types.PlatformAndroid: types.TargetAndroid,
		types.PlatformWin32:   types.TargetWin32,
	}
	return Dispatcher{
		xcode:   xcode,
		android: NewAndroidPatcher(),
		msbuild: NewMSBuildPatcher(),
		entry:   NewEntryPatcher(),
		routes: map[types.CommandKind]route{
			types.CommandAddHeaderPath: {targets: perPlatform, run: addHeaderPath},
			types.CommandAddLib:        {targets: perPlatform, run: addLib},
			types.CommandAddSystemFramework: {
				targets: map[types.PlatformID]types.Target{
					types.PlatformIOS: types.TargetIOS,
					types.PlatformMac: types.TargetMac,
				},
				run: addSystemFramework,
			},
			types.CommandAddProject: {
				targets: map[types.PlatformID]types.Target{
					types.PlatformIOS:     types.TargetIOSMac,
					types.PlatformMac:     types.TargetIOSMac,
					types.PlatformAndroid: types.TargetAndroid,
				},
				run: addProject,
			},
			types.CommandAddEntryFunction: {shared: true, run: addEntryFunction},
		},
	}
}

// Supports reports whether kind has a handler.
func (d Dispatcher) Supports(kind types.CommandKind) bool {
	_, ok := d.routes[kind]
	return ok
}

// Apply runs the manifest operations in order. The first failure stops the
// run; files rewritten by earlier operations stay rewritten and the returned
// report covers everything up to the failure.
func (d Dispatcher) Apply(ctx context.Context, manifest types.Manifest, inv Invocation) (types.ApplyReport, error) {
	assert.NotEmpty(ctx, inv.Project.Root, "project root must be set")
	assert.NotEmpty(ctx, inv.Package.Root, "package root must be set")
	if inv.Policy == nil {
		inv.Policy = policies.NewPlatformPolicy(nil)
	}

	report := types.ApplyReport{}
	for _, op := range manifest.Operations {
		if err := ctx.Err(); err != nil {
			return finish(report, inv), err
		}
		opReport, err := d.applyOperation(op, inv)
		report.Operations = append(report.Operations, opReport)
		if err != nil {
			return finish(report, inv), annotate(err, op, manifest.Source)
		}
	}
	return finish(report, inv), nil
}

func finish(report types.ApplyReport, inv Invocation) types.ApplyReport {
	if inv.Recorder != nil {
		report.Reversal = inv.Recorder.Manifest()
	}
	return report
}

func (d Dispatcher) applyOperation(op types.Operation, inv Invocation) (types.OperationReport, error) {
	report := types.OperationReport{Index: op.Index, Command: op.Command}
	r, ok := d.routes[op.Command]
	if !ok {
		return report, unknownCommand(op.Command, op.Index)
	}
	if r.shared {
		outcome, err := d.runShared(r, op, inv)
		if err != nil {
			return report, err
		}
		report.Outcomes = append(report.Outcomes, outcome)
		return report, nil
	}
	if len(op.Platforms) == 0 {
		return report, malformed(op.Index, "platform list is empty")
	}

	done := map[types.Target]bool{}
	for _, platform := range op.Platforms {
		target, supported := r.targets[platform]
		if !supported {
			report.Outcomes = append(report.Outcomes, types.PlatformOutcome{
				Platform: platform,
				Status:   types.OutcomeSkipped,
				Reason:   fmt.Sprintf("%s does not apply to %s", op.Command, platform),
			})
			continue
		}
		if done[target] {
			continue
		}
		outcome := types.PlatformOutcome{Platform: platform, Target: target}
		if allowed, reason := inv.Policy.Allow(inv.Project, platform, target); !allowed {
			log.Debug().
				Str("command", string(op.Command)).
				Str("platform", string(platform)).
				Str("reason", reason).
				Msg("platform skipped")
			outcome.Status = types.OutcomeSkipped
			outcome.Reason = reason
			report.Outcomes = append(report.Outcomes, outcome)
			continue
		}
		done[target] = true
		files, changed, err := r.run(d, call{inv: inv, op: op, platform: platform, target: target})
		if err != nil {
			return report, withPlatform(err, platform)
		}
		outcome.Files = files
		outcome.Status = statusOf(changed)
		report.Outcomes = append(report.Outcomes, outcome)
	}
	return report, nil
}

// runShared executes a platform independent command once.
func (d Dispatcher) runShared(r route, op types.Operation, inv Invocation) (types.PlatformOutcome, error) {
	var platform types.PlatformID
	if len(op.Platforms) > 0 {
		platform = op.Platforms[0]
	}
	outcome := types.PlatformOutcome{Platform: platform, Target: types.TargetShared}
	if !inv.Project.HasTarget(types.TargetShared) {
		outcome.Status = types.OutcomeSkipped
		outcome.Reason = "no Classes/AppDelegate.cpp in " + inv.Project.Root
		return outcome, nil
	}
	files, changed, err := r.run(d, call{inv: inv, op: op, platform: platform, target: types.TargetShared})
	if err != nil {
		return outcome, err
	}
	outcome.Files = files
	outcome.Status = statusOf(changed)
	return outcome, nil
}

func statusOf(changed bool) types.OutcomeStatus {
	if changed {
		return types.OutcomeApplied
	}
	return types.OutcomeUnchanged
}

func withPlatform(err error, platform types.PlatformID) error {
	err = withDetail(err, LabelRegionNotFound, DetailPlatform, string(platform))
	return withDetail(err, LabelRender, DetailPlatform, string(platform))
}

func annotate(err error, op types.Operation, source string) error {
	err = withDetail(err, LabelRegionNotFound, DetailCommand, string(op.Command))
	err = withDetail(err, LabelMalformedManifest, DetailSource, source)
	return withDetail(err, LabelMalformedManifest, DetailIndex, strconv.Itoa(op.Index))
}

func addHeaderPath(d Dispatcher, c call) ([]string, bool, error) {
	raw, source, err := packageSource(c, "source")
	if err != nil {
		return nil, false, err
	}
	project := c.inv.Project
	switch c.target {
	case types.TargetIOS, types.TargetMac:
		entry, err := shared.XcodePath(project.IOSMac, source)
		if err != nil {
			return nil, false, renderError(raw, c, err)
		}
		return editOne(c, project.Pbxproj, func(text string) (string, bool, error) {
			return d.xcode.AddHeaderPath(text, c.platform, entry)
		})
	case types.TargetAndroid:
		entry, err := shared.AndroidMkPath(filepath.Dir(project.AndroidMk), source)
		if err != nil {
			return nil, false, renderError(raw, c, err)
		}
		return editOne(c, project.AndroidMk, func(text string) (string, bool, error) {
			return d.android.AddHeaderPath(text, entry)
		})
	case types.TargetWin32:
		entry, err := shared.MSBuildPath(filepath.Dir(project.Vcxproj), source, true)
		if err != nil {
			return nil, false, renderError(raw, c, err)
		}
		return editOne(c, project.Vcxproj, func(text string) (string, bool, error) {
			return d.msbuild.AddHeaderPath(text, entry)
		})
	}
	return nil, false, noHandler(c)
}

func addLib(d Dispatcher, c call) ([]string, bool, error) {
	project := c.inv.Project
	if c.target == types.TargetAndroid {
		return d.androidModule(c)
	}
	raw, source, err := packageSource(c, "source")
	if err != nil {
		return nil, false, err
	}
	switch c.target {
	case types.TargetIOS, types.TargetMac:
		entry, err := shared.XcodePath(project.IOSMac, source)
		if err != nil {
			return nil, false, renderError(raw, c, err)
		}
		return editOne(c, project.Pbxproj, func(text string) (string, bool, error) {
			return d.xcode.AddLib(text, c.platform, entry)
		})
	case types.TargetWin32:
		dir, err := shared.MSBuildPath(filepath.Dir(project.Vcxproj), filepath.Dir(source), true)
		if err != nil {
			return nil, false, renderError(raw, c, err)
		}
		name := filepath.Base(source)
		return editOne(c, project.Vcxproj, func(text string) (string, bool, error) {
			text, pathAdded, err := d.msbuild.AddLibPath(text, dir)
			if err != nil {
				return "", false, err
			}
			text, libAdded, err := d.msbuild.AddLib(text, name)
			if err != nil {
				return "", false, err
			}
			return text, pathAdded || libAdded, nil
		})
	}
	return nil, false, noHandler(c)
}

// androidModule links a prebuilt NDK module: the static library and its
// import-module call in Android.mk, and the package root in the NDK module
// search path of build-cfg.json.
func (d Dispatcher) androidModule(c call) ([]string, bool, error) {
	name, err := requireString(c, "name")
	if err != nil {
		return nil, false, err
	}
	module, err := requireString(c, "import")
	if err != nil {
		return nil, false, err
	}
	project := c.inv.Project
	modulePath, err := shared.RelativeSlash(project.Android, c.inv.Package.Root)
	if err != nil {
		return nil, false, renderError(c.inv.Package.Root, c, err)
	}

	files, changed, err := editOne(c, project.AndroidMk, func(text string) (string, bool, error) {
		text, libAdded, err := d.android.AddStaticLib(text, name)
		if err != nil {
			return "", false, err
		}
		text, importAdded, err := d.android.AddImport(text, module)
		if err != nil {
			return "", false, err
		}
		return text, libAdded || importAdded, nil
	})
	if err != nil {
		return nil, false, err
	}
	cfgChanged, err := d.editModulePath(c, modulePath)
	if err != nil {
		return files, changed, err
	}
	if cfgChanged {
		files = append(files, shared.ProjectRelative(project.Root, project.BuildCfg))
	}
	return files, changed || cfgChanged, nil
}

func (d Dispatcher) editModulePath(c call, value string) (bool, error) {
	project := c.inv.Project
	if project.BuildCfg == "" {
		err := regionNotFound(ndkModulePathKey, "build config missing")
		return false, withDetail(err, LabelRegionNotFound, DetailFile, filepath.ToSlash(filepath.Join("proj.android", "build-cfg.json")))
	}
	data, err := c.inv.Files.ReadFile(project.BuildCfg)
	if err != nil {
		return false, fileFailed("read", project.BuildCfg, err)
	}
	out, changed, created, err := d.android.AddModulePath(string(data), value)
	if err != nil {
		return false, withDetail(err, LabelRegionNotFound, DetailFile, shared.ProjectRelative(project.Root, project.BuildCfg))
	}
	if !changed {
		return false, nil
	}
	if c.inv.Recorder != nil {
		if err := c.inv.Recorder.RecordJSONAppend(project.BuildCfg, ndkModulePathKey, value, string(data), out); err != nil {
			return false, err
		}
	}
	if err := c.inv.Files.WriteFile(project.BuildCfg, []byte(out)); err != nil {
		return false, fileFailed("write", project.BuildCfg, err)
	}
	log.Debug().
		Str("file", project.BuildCfg).
		Str("value", value).
		Bool("created", created).
		Msg("ndk module path added")
	return true, nil
}

func addSystemFramework(d Dispatcher, c call) ([]string, bool, error) {
	name, err := requireString(c, "name")
	if err != nil {
		return nil, false, err
	}
	fw := types.SystemFramework{Name: name}
	fw.FileID, err = objectID(c, "file_id", c.inv.Package.Name, name, string(c.platform), "file")
	if err != nil {
		return nil, false, err
	}
	fw.BuildID, err = objectID(c, "build_id", c.inv.Package.Name, name, string(c.platform), "build")
	if err != nil {
		return nil, false, err
	}
	return editOne(c, c.inv.Project.Pbxproj, func(text string) (string, bool, error) {
		return d.xcode.AddSystemFramework(text, c.platform, fw)
	})
}

func addProject(d Dispatcher, c call) ([]string, bool, error) {
	if c.target == types.TargetAndroid {
		return d.androidModule(c)
	}
	raw, source, err := packageSource(c, "project")
	if err != nil {
		return nil, false, err
	}
	rel, err := shared.RelativeSlash(c.inv.Project.IOSMac, source)
	if err != nil {
		return nil, false, renderError(raw, c, err)
	}
	sub := types.SubProject{Name: filepath.Base(source), Path: rel}
	if sub.FileRefID, err = manifestID(c, c.op.Payload, "file_ref_id"); err != nil {
		return nil, false, err
	}
	if sub.ProductGroupID, err = manifestID(c, c.op.Payload, "product_group_id"); err != nil {
		return nil, false, err
	}
	if sub.IOS, err = subProduct(c, types.PlatformIOS); err != nil {
		return nil, false, err
	}
	if sub.Mac, err = subProduct(c, types.PlatformMac); err != nil {
		return nil, false, err
	}
	return editOne(c, c.inv.Project.Pbxproj, func(text string) (string, bool, error) {
		return d.xcode.AddSubProject(text, sub)
	})
}

// subProduct reads the per platform product of a sub-project. Platforms not
// declared by the operation, or excluded by policy, contribute nothing.
func subProduct(c call, platform types.PlatformID) (types.SubProjectProduct, error) {
	if !slices.Contains(c.op.Platforms, platform) {
		return types.SubProjectProduct{}, nil
	}
	if allowed, _ := c.inv.Policy.Allow(c.inv.Project, platform, types.TargetIOSMac); !allowed {
		return types.SubProjectProduct{}, nil
	}
	fields, ok := c.op.Payload[string(platform)].(map[string]any)
	if !ok {
		return types.SubProjectProduct{}, malformed(c.op.Index, fmt.Sprintf("%s needs a %q object", c.op.Command, platform))
	}
	payload := types.Payload(fields)
	product := types.SubProjectProduct{Product: payload.String("product")}
	if product.Product == "" {
		return types.SubProjectProduct{}, malformed(c.op.Index, fmt.Sprintf("%s.product is missing", platform))
	}
	var err error
	ids := []struct {
		key    string
		target *string
	}{
		{"remote_id", &product.RemoteID},
		{"container_proxy_id", &product.ContainerProxyID},
		{"reference_proxy_id", &product.ReferenceProxyID},
		{"build_file_id", &product.BuildFileID},
	}
	for _, id := range ids {
		if *id.target, err = manifestID(c, payload, id.key); err != nil {
			return types.SubProjectProduct{}, err
		}
	}
	return product, nil
}

func addEntryFunction(d Dispatcher, c call) ([]string, bool, error) {
	header := c.op.Payload.String("header")
	function := c.op.Payload.String("function")
	if header == "" && function == "" {
		return nil, false, malformed(c.op.Index, "add_entry_function needs header or function")
	}
	return editOne(c, c.inv.Project.AppDelegate, func(text string) (string, bool, error) {
		return d.entry.AddEntryFunction(text, header, function)
	})
}

// editOne reads path, runs patch over its text and writes the result once
// when it changed. A failing patch leaves the file untouched.
func editOne(c call, path string, patch func(string) (string, bool, error)) ([]string, bool, error) {
	data, err := c.inv.Files.ReadFile(path)
	if err != nil {
		return nil, false, fileFailed("read", path, err)
	}
	rel := shared.ProjectRelative(c.inv.Project.Root, path)
	before := string(data)
	after, changed, err := patch(before)
	if err != nil {
		return nil, false, withDetail(err, LabelRegionNotFound, DetailFile, rel)
	}
	if !changed || after == before {
		return nil, false, nil
	}
	if c.inv.Recorder != nil {
		if err := c.inv.Recorder.RecordText(path, before, after); err != nil {
			return nil, false, err
		}
	}
	if err := c.inv.Files.WriteFile(path, []byte(after)); err != nil {
		return nil, false, fileFailed("write", path, err)
	}
	log.Debug().
		Str("command", string(c.op.Command)).
		Str("platform", string(c.platform)).
		Str("file", rel).
		Msg("project file patched")
	return []string{rel}, true, nil
}

func requireString(c call, key string) (string, error) {
	value := c.op.Payload.StringFor(key, c.platform)
	if value == "" {
		return "", malformed(c.op.Index, fmt.Sprintf("%s needs %q for %s", c.op.Command, key, c.platform))
	}
	return value, nil
}

// packageSource resolves a package relative path from the payload.
func packageSource(c call, key string) (string, string, error) {
	raw, err := requireString(c, key)
	if err != nil {
		return "", "", err
	}
	source, err := shared.PackagePath(c.inv.Package.Root, raw)
	if err != nil {
		return raw, "", renderError(raw, c, err)
	}
	return raw, source, nil
}

// objectID returns the identifier stored under key, or one derived from
// parts when the manifest leaves it out.
func objectID(c call, key string, parts ...string) (string, error) {
	id := c.op.Payload.StringFor(key, c.platform)
	if id == "" {
		return DeriveObjectID(parts...), nil
	}
	if !ValidObjectID(id) {
		return "", malformed(c.op.Index, fmt.Sprintf("%s %q is not a 24 digit upper-case hex id", key, id))
	}
	return id, nil
}

func manifestID(c call, payload types.Payload, key string) (string, error) {
	id := payload.String(key)
	if !ValidObjectID(id) {
		return "", malformed(c.op.Index, fmt.Sprintf("%s %q is not a 24 digit upper-case hex id", key, id))
	}
	return id, nil
}

func noHandler(c call) error {
	return errbuilder.New().
		WithCode(errbuilder.CodeInternal).
		WithMsg(fmt.Sprintf("%s has no handler for target %s", c.op.Command, c.target))
}

func renderError(source string, c call, err error) error {
	return renderFailed(source, c.platform, err)
}
