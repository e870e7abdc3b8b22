package sumogen

import (
	"encoding/xml"
	"strconv"
)

// XML document types mirroring the simulation engine's plain-XML input
// grammar. Float attributes are kept as strings so formatting is under our
// control and stays byte-reproducible.

type xmlNodes struct {
	XMLName xml.Name  `xml:"nodes"`
	Nodes   []xmlNode `xml:"node"`
}

type xmlNode struct {
	ID         string `xml:"id,attr"`
	X          string `xml:"x,attr"`
	Y          string `xml:"y,attr"`
	Type       string `xml:"type,attr"`
	Standalone bool   `xml:"standalone,attr,omitempty"`
}

type xmlEdges struct {
	XMLName xml.Name  `xml:"edges"`
	Edges   []xmlEdge `xml:"edge"`
}

type xmlEdge struct {
	ID       string `xml:"id,attr"`
	From     string `xml:"from,attr"`
	To       string `xml:"to,attr"`
	NumLanes int    `xml:"numLanes,attr"`
	Speed    string `xml:"speed,attr"`
	Priority int    `xml:"priority,attr"`
	Length   string `xml:"length,attr"`
}

type xmlRoutes struct {
	XMLName      xml.Name         `xml:"routes"`
	VehicleTypes []xmlVehicleType `xml:"vType"`
	Flows        []xmlFlow        `xml:"flow"`
}

type xmlVehicleType struct {
	ID            string `xml:"id,attr"`
	Length        string `xml:"length,attr"`
	MinGap        string `xml:"minGap,attr"`
	MaxSpeed      string `xml:"maxSpeed,attr"`
	Accel         string `xml:"accel,attr"`
	Decel         string `xml:"decel,attr"`
	Sigma         string `xml:"sigma,attr"`
	Tau           string `xml:"tau,attr"`
	VClass        string `xml:"vClass,attr,omitempty"`
	Color         string `xml:"color,attr,omitempty"`
	EmissionClass string `xml:"emissionClass,attr,omitempty"`
}

type xmlFlow struct {
	ID          string `xml:"id,attr"`
	Type        string `xml:"type,attr"`
	Begin       string `xml:"begin,attr"`
	End         string `xml:"end,attr"`
	From        string `xml:"from,attr"`
	To          string `xml:"to,attr"`
	VehsPerHour string `xml:"vehsPerHour,attr,omitempty"`
	Probability string `xml:"probability,attr,omitempty"`
}

type xmlTlLogics struct {
	XMLName     xml.Name        `xml:"tlLogics"`
	Logics      []xmlTlLogic    `xml:"tlLogic"`
	Connections []xmlConnection `xml:"connection"`
}

type xmlTlLogic struct {
	ID        string     `xml:"id,attr"`
	Type      string     `xml:"type,attr"`
	ProgramID string     `xml:"programID,attr"`
	Offset    int        `xml:"offset,attr"`
	Phases    []xmlPhase `xml:"phase"`
}

type xmlPhase struct {
	Duration int    `xml:"duration,attr"`
	State    string `xml:"state,attr"`
	MinDur   int    `xml:"minDur,attr,omitempty"`
	MaxDur   int    `xml:"maxDur,attr,omitempty"`
	Name     string `xml:"name,attr,omitempty"`
}

type xmlConnection struct {
	From      string `xml:"from,attr"`
	To        string `xml:"to,attr"`
	FromLane  int    `xml:"fromLane,attr"`
	ToLane    int    `xml:"toLane,attr"`
	Tl        string `xml:"tl,attr"`
	LinkIndex int    `xml:"linkIndex,attr"`
}

type xmlConfiguration struct {
	XMLName    xml.Name            `xml:"configuration"`
	Input      xmlConfigInput      `xml:"input"`
	Time       xmlConfigTime       `xml:"time"`
	Output     *xmlConfigOutput    `xml:"output,omitempty"`
	Processing xmlConfigProcessing `xml:"processing"`
}

type xmlConfigInput struct {
	NetFile         xmlConfigValue  `xml:"net-file"`
	RouteFiles      xmlConfigValue  `xml:"route-files"`
	AdditionalFiles *xmlConfigValue `xml:"additional-files,omitempty"`
}

type xmlConfigTime struct {
	Begin      xmlConfigValue `xml:"begin"`
	End        xmlConfigValue `xml:"end"`
	StepLength xmlConfigValue `xml:"step-length"`
}

type xmlConfigOutput struct {
	Tripinfo *xmlConfigValue `xml:"tripinfo-output,omitempty"`
	Summary  *xmlConfigValue `xml:"summary-output,omitempty"`
}

type xmlConfigProcessing struct {
	TimeToTeleport    xmlConfigValue  `xml:"time-to-teleport"`
	IgnoreRouteErrors *xmlConfigValue `xml:"ignore-route-errors,omitempty"`
}

type xmlConfigValue struct {
	Value string `xml:"value,attr"`
}

// formatFloat renders a float so that parsing it back yields the identical
// value
func formatFloat(value float64) string {
	return strconv.FormatFloat(value, 'f', -1, 64)
}

func formatInt(value int) string {
	return strconv.Itoa(value)
}

func parseFloatAttr(artifact, entity, attr, value string) (float64, error) {
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, newSerialization(artifact, entity, value, "attribute '%s' is not numeric", attr)
	}
	return parsed, nil
}
