package sumogen

import (
	"fmt"
)

// GridConfig parametrizes a rectangular grid. Interior intersections are
// signalized when Signalized is set; border nodes stay priority-controlled.
type GridConfig struct {
	Rows              int
	Cols              int
	BlockLengthMeters float64
	Lanes             int
	SpeedLimitKmh     float64
	Signalized        bool
}

func DefaultGridConfig() GridConfig {
	return GridConfig{
		Rows:              3,
		Cols:              3,
		BlockLengthMeters: 200.0,
		Lanes:             2,
		SpeedLimitKmh:     50.0,
		Signalized:        true,
	}
}

func (cfg GridConfig) Kind() TemplateKind {
	return TEMPLATE_GRID
}

func (cfg GridConfig) Validate() error {
	if cfg.Rows < 2 || cfg.Rows > 20 {
		return newInvalidParameter("rows", "must be within [2, 20], got %d", cfg.Rows)
	}
	if cfg.Cols < 2 || cfg.Cols > 20 {
		return newInvalidParameter("cols", "must be within [2, 20], got %d", cfg.Cols)
	}
	if err := checkPositive("block_length", cfg.BlockLengthMeters); err != nil {
		return err
	}
	if err := checkLanesBound("lanes", cfg.Lanes); err != nil {
		return err
	}
	return checkPositive("speed_limit", cfg.SpeedLimitKmh)
}

func (cfg GridConfig) build() (*NetworkModel, error) {
	net := NewNetworkModel()
	speed := KmhToMs(cfg.SpeedLimitKmh)

	for row := 0; row < cfg.Rows; row++ {
		for col := 0; col < cfg.Cols; col++ {
			onBorder := row == 0 || row == cfg.Rows-1 || col == 0 || col == cfg.Cols-1
			kind := NODE_PRIORITY
			if cfg.Signalized && !onBorder {
				kind = NODE_TRAFFIC_LIGHT
			}
			node := Node{
				ID:   NodeID(fmt.Sprintf("n%d_%d", row, col)),
				X:    float64(col) * cfg.BlockLengthMeters,
				Y:    float64(row) * cfg.BlockLengthMeters,
				Kind: kind,
			}
			if err := net.AddNode(node); err != nil {
				return nil, err
			}
		}
	}

	// Horizontal edges, both directions
	for row := 0; row < cfg.Rows; row++ {
		for col := 0; col < cfg.Cols-1; col++ {
			from := NodeID(fmt.Sprintf("n%d_%d", row, col))
			to := NodeID(fmt.Sprintf("n%d_%d", row, col+1))
			if err := addGridPair(net, fmt.Sprintf("e%d_%d_EB", row, col), fmt.Sprintf("e%d_%d_WB", row, col), from, to, cfg.Lanes, speed); err != nil {
				return nil, err
			}
		}
	}
	// Vertical edges, both directions
	for row := 0; row < cfg.Rows-1; row++ {
		for col := 0; col < cfg.Cols; col++ {
			from := NodeID(fmt.Sprintf("n%d_%d", row, col))
			to := NodeID(fmt.Sprintf("n%d_%d", row+1, col))
			if err := addGridPair(net, fmt.Sprintf("e%d_%d_NB", row, col), fmt.Sprintf("e%d_%d_SB", row, col), from, to, cfg.Lanes, speed); err != nil {
				return nil, err
			}
		}
	}
	return net, nil
}

func addGridPair(net *NetworkModel, forwardID, backwardID string, from, to NodeID, lanes int, speed float64) error {
	forward := Edge{
		ID:       EdgeID(forwardID),
		Source:   from,
		Target:   to,
		NumLanes: lanes,
		Speed:    speed,
		Priority: 1,
	}
	if err := net.AddEdge(forward); err != nil {
		return err
	}
	backward := Edge{
		ID:       EdgeID(backwardID),
		Source:   to,
		Target:   from,
		NumLanes: lanes,
		Speed:    speed,
		Priority: 1,
	}
	return net.AddEdge(backward)
}
