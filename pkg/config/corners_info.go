package config

// CornerInfo is the content of one corner overlay.
type CornerInfo struct {
	Label           string    `json:"label,omitempty"`
	Unit            string    `json:"unit,omitempty"`
	Entity          string    `json:"entity,omitempty"`
	Attribute       string    `json:"attribute,omitempty"`
	Precision       int       `json:"precision"`
	InputSpeedUnit  SpeedUnit `json:"input_speed_unit,omitempty"`
	OutputSpeedUnit SpeedUnit `json:"output_speed_unit,omitempty"`
}

// Show reports whether the corner has anything to render.
func (c CornerInfo) Show() bool {
	return c.Label != "" || c.Entity != ""
}

// CornersInfo holds the four corner overlays.
type CornersInfo struct {
	TopLeft     CornerInfo `json:"top_left"`
	TopRight    CornerInfo `json:"top_right"`
	BottomLeft  CornerInfo `json:"bottom_left"`
	BottomRight CornerInfo `json:"bottom_right"`
}

// CornersInfoFromConfig builds the corner overlays. It never fails;
// unknown units are dropped.
func CornersInfoFromConfig(raw *RawCornersInfo, defaults Defaults) CornersInfo {
	if raw == nil {
		raw = &RawCornersInfo{}
	}
	return CornersInfo{
		TopLeft:     cornerInfo(raw.TopLeft, defaults),
		TopRight:    cornerInfo(raw.TopRight, defaults),
		BottomLeft:  cornerInfo(raw.BottomLeft, defaults),
		BottomRight: cornerInfo(raw.BottomRight, defaults),
	}
}

func cornerInfo(raw *RawCornerInfo, defaults Defaults) CornerInfo {
	if raw == nil {
		return CornerInfo{Precision: defaults.CornerPrecision}
	}
	label, _ := CheckString(raw.Label)
	unit, _ := CheckString(raw.Unit)
	entity, _ := CheckString(raw.Entity)
	attribute, _ := CheckString(raw.Attribute)
	return CornerInfo{
		Label:           label,
		Unit:            unit,
		Entity:          entity,
		Attribute:       attribute,
		Precision:       int(CheckNumberOrDefault(raw.Precision, float64(defaults.CornerPrecision))),
		InputSpeedUnit:  lenientSpeedUnit(raw.InputSpeedUnit, true),
		OutputSpeedUnit: lenientSpeedUnit(raw.OutputSpeedUnit, false),
	}
}

func lenientSpeedUnit(s *string, allowAuto bool) SpeedUnit {
	v, ok := CheckString(s)
	if !ok {
		return ""
	}
	unit, err := parseSpeedUnit("", v, allowAuto)
	if err != nil {
		return ""
	}
	return unit
}
