package fabric

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/netfabric/fabricctl/internal/controller"
	"github.com/netfabric/fabricctl/internal/logging"
)

// Template provisioning constants
const (
	ProvisionTypeUserCLI = "USER_CLI_TEMPLATE_PROVISION"
	TargetManagedDevice  = "MANAGED_DEVICE_UUID"
)

// ErrNoPrompter is returned when a choice or a parameter value is needed but
// there is no way to ask for it
var ErrNoPrompter = errors.New("input required but not running interactively")

// Prompter asks the operator for missing choices and values
type Prompter interface {
	// Choose returns the index of the selected option
	Choose(title string, options []string) (int, error)
	// Input returns the value typed for prompt
	Input(prompt string) (string, error)
}

// TemplateDeployer provisions a user CLI template onto one fabric device
type TemplateDeployer struct {
	*Session

	// Template is the template name, or "project/name". Empty asks.
	Template string
	// Device is the device hostname. Empty asks.
	Device string
	// Params are preset parameter values by parameter name. Missing ones are asked.
	Params map[string]string

	Prompter Prompter
}

// TemplateReport is the outcome of a deployment
type TemplateReport struct {
	Template   string
	TemplateID string
	Device     string
	Params     map[string]string
	Task       controller.Task
}

// Run picks the template and device, collects the parameters and commits the
// provisioning request through the device's DeviceInfo document
func (d *TemplateDeployer) Run(ctx context.Context) (*TemplateReport, error) {
	list, err := d.Client.Get(ctx, PathTemplate)
	if err != nil {
		return nil, fmt.Errorf("failed to list templates: %w", err)
	}
	summary, err := d.chooseTemplate(list.Objects())
	if err != nil {
		return nil, err
	}

	latest := LatestVersion(summary)
	if latest == nil {
		return nil, controller.NewLookupError(fmt.Sprintf("template %s has no versions", summary.String("name")))
	}
	resp, err := d.Client.Get(ctx, PathTemplate+"/"+latest.String("id"))
	if err != nil {
		return nil, fmt.Errorf("failed to get template %s: %w", summary.String("name"), err)
	}
	template := resp.Object()
	logging.Debug("Template content", zap.String("content", template.String("templateContent")))

	report := &TemplateReport{
		Template:   summary.String("name"),
		TemplateID: latest.String("id"),
	}
	d.emit(Event{Kind: EventBegin, Subject: report.Template})

	if report.Params, err = d.collectParams(template); err != nil {
		return nil, err
	}

	devices, err := d.items(ctx, PathNetworkDevice)
	if err != nil {
		return nil, fmt.Errorf("failed to list devices: %w", err)
	}
	device, err := d.chooseDevice(devices)
	if err != nil {
		return nil, err
	}
	report.Device = device.String("hostname")

	if controller.Find(template["deviceTypes"], device.String("family"), "productFamily") == nil {
		return nil, controller.NewValidationError(fmt.Sprintf(
			"device type mismatch: template %s does not apply to %s (%s)",
			report.Template, report.Device, device.String("family")))
	}

	docs, err := d.items(ctx, PathDeviceInfo, controller.WithVersion(VersionV2), controller.WithParam("name", device.String("id")))
	if err != nil {
		return nil, fmt.Errorf("failed to get DeviceInfo for %s: %w", report.Device, err)
	}
	if len(docs) == 0 {
		return nil, controller.NewInconsistentStateError(
			fmt.Sprintf("device %s has not been provisioned yet", report.Device))
	}

	payload, err := ProvisionPayload(report.TemplateID, report.Params, device)
	if err != nil {
		return nil, err
	}
	docs[0].Set("customProvisions", []any{
		controller.Object{"type": ProvisionTypeUserCLI, "payload": payload},
	})

	body := make([]any, len(docs))
	for i, doc := range docs {
		body[i] = doc
	}
	if report.Task, err = d.put(ctx, PathDeviceInfo, body, report.Device); err != nil {
		return nil, fmt.Errorf("%s: %w", report.Device, err)
	}
	return report, nil
}

// ProvisionPayload is the base64 encoded deployment request carried in the
// DeviceInfo custom provision
func ProvisionPayload(templateID string, params map[string]string, device controller.Object) (string, error) {
	if params == nil {
		params = map[string]string{}
	}
	data := []any{
		controller.Object{
			"templateId": templateID,
			"targetInfo": []any{
				controller.Object{
					"type":     TargetManagedDevice,
					"params":   params,
					"id":       device.String("id"),
					"hostName": device.String("hostname"),
				},
			},
		},
	}
	raw, err := json.Marshal(data)
	if err != nil {
		return "", controller.NewParseError("failed to encode template payload", err)
	}
	logging.Debug("Template payload", zap.ByteString("payload", raw))
	return base64.StdEncoding.EncodeToString(raw), nil
}

// LatestVersion returns the versionsInfo entry with the highest version
func LatestVersion(template controller.Object) controller.Object {
	var latest controller.Object
	best := -1.0
	for _, vi := range template.Objects("versionsInfo") {
		v := versionNumber(vi)
		if latest == nil || v > best {
			latest, best = vi, v
		}
	}
	return latest
}

func versionNumber(vi controller.Object) float64 {
	if n, ok := vi.Int64("version"); ok {
		return float64(n)
	}
	f, err := strconv.ParseFloat(vi.String("version"), 64)
	if err != nil {
		return -1
	}
	return f
}

// TemplateLabel is how a template is listed in the picker
func TemplateLabel(template controller.Object) string {
	if project := template.String("projectName"); project != "" {
		return project + "/" + template.String("name")
	}
	return template.String("name")
}

func (d *TemplateDeployer) chooseTemplate(templates []controller.Object) (controller.Object, error) {
	if len(templates) == 0 {
		return nil, controller.NewLookupError("the controller has no templates")
	}

	if d.Template != "" {
		for _, t := range templates {
			if t.String("name") == d.Template || TemplateLabel(t) == d.Template {
				return t, nil
			}
		}
		return nil, controller.NewLookupError(fmt.Sprintf("template %s not found", d.Template))
	}

	labels := make([]string, len(templates))
	for i, t := range templates {
		labels[i] = TemplateLabel(t)
	}
	idx, err := d.choose("Select template", labels)
	if err != nil {
		return nil, err
	}
	return templates[idx], nil
}

func (d *TemplateDeployer) chooseDevice(devices []controller.Object) (controller.Object, error) {
	if d.Device != "" {
		return controller.FindOrFail(devices, d.Device, "hostname", "device")
	}
	if len(devices) == 0 {
		return nil, controller.NewLookupError("the controller has no devices")
	}

	names := make([]string, len(devices))
	for i, dev := range devices {
		names[i] = dev.String("hostname")
	}
	idx, err := d.choose("Select device", names)
	if err != nil {
		return nil, err
	}
	return devices[idx], nil
}

func (d *TemplateDeployer) choose(title string, options []string) (int, error) {
	if d.Prompter == nil {
		return 0, fmt.Errorf("%s: %w", strings.ToLower(title), ErrNoPrompter)
	}
	idx, err := d.Prompter.Choose(title, options)
	if err != nil {
		return 0, err
	}
	if idx < 0 || idx >= len(options) {
		return 0, controller.NewValidationError(fmt.Sprintf("selection %d out of range", idx))
	}
	return idx, nil
}

func (d *TemplateDeployer) collectParams(template controller.Object) (map[string]string, error) {
	params := make(map[string]string)
	for _, tp := range template.Objects("templateParams") {
		name := tp.String("parameterName")
		if v, ok := d.Params[name]; ok {
			params[name] = v
			continue
		}
		if d.Prompter == nil {
			return nil, fmt.Errorf("parameter %s: %w", name, ErrNoPrompter)
		}
		v, err := d.Prompter.Input(ParamPrompt(tp))
		if err != nil {
			return nil, err
		}
		params[name] = v
	}
	return params, nil
}

// ParamPrompt describes a template parameter: its data type (STRING when
// unset), display name (the parameter name when unset) and the allowed
// selection values or ranges in brackets.
func ParamPrompt(param controller.Object) string {
	dataType := param.String("dataType")
	if dataType == "" {
		dataType = "STRING"
	}
	name := param.String("displayName")
	if name == "" {
		name = param.String("parameterName")
	}

	allowed := selectionValues(param)
	if allowed == "" {
		var ranges []string
		for _, r := range param.Objects("range") {
			lo, _ := r.Int64("minValue")
			hi, _ := r.Int64("maxValue")
			ranges = append(ranges, fmt.Sprintf("%d-%d", lo, hi))
		}
		allowed = strings.Join(ranges, ", ")
	}

	if allowed != "" {
		return fmt.Sprintf("%s %s [%s]", dataType, name, allowed)
	}
	return fmt.Sprintf("%s %s", dataType, name)
}

// selectionValues lists the selection values ordered by key
func selectionValues(param controller.Object) string {
	values := param.Object("selection").Object("selectionValues")
	if len(values) == 0 {
		return ""
	}
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make([]string, len(keys))
	for i, k := range keys {
		out[i] = values.String(k)
	}
	return strings.Join(out, ", ")
}
