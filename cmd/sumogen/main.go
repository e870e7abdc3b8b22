package main

import (
	"flag"
	"os"
	"path/filepath"

	"github.com/clicksumo/sumogen"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

var (
	scenarioFile = flag.String("scenario", "scenario.yaml", "Path to YAML scenario description")
	outDir       = flag.String("out", ".", "Directory for generated artifacts")
	geojsonOut   = flag.Bool("geojson", false, "Also export a GeoJSON preview of the network")
	verbose      = flag.Bool("verbose", false, "Enable debug logging")
)

var log = logrus.New()

func main() {
	flag.Parse()
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	if *verbose {
		log.SetLevel(logrus.DebugLevel)
	}
	if err := run(); err != nil {
		log.Fatalf("%+v", err)
	}
}

func run() error {
	cfg, err := LoadScenarioConfig(*scenarioFile)
	if err != nil {
		return err
	}
	log.Infof("Building scenario '%s' from template '%s'", cfg.Name, cfg.Template.Kind)

	templateCfg, err := cfg.Template.TemplateConfig()
	if err != nil {
		return err
	}
	net, err := sumogen.CreateNetwork(templateCfg)
	if err != nil {
		return err
	}
	log.Debugf("Network built: %d nodes, %d edges", len(net.Nodes()), len(net.Edges()))

	dm, err := buildDemand(cfg, net)
	if err != nil {
		return err
	}
	router, err := sumogen.NewRouter(net)
	if err != nil {
		return err
	}
	if err := router.ValidateFlows(dm); err != nil {
		return err
	}

	sm, err := buildSignals(cfg, net, dm, router)
	if err != nil {
		return err
	}

	settings := cfg.Simulation.SimulationSettings()
	artifacts, err := sumogen.SerializeScenario(cfg.Name, net, dm, sm, settings)
	if err != nil {
		return err
	}
	for _, artifact := range artifacts {
		if err := writeAtomic(filepath.Join(*outDir, artifact.Name), artifact.Data); err != nil {
			return err
		}
		log.Infof("Wrote %s (%d bytes)", artifact.Name, len(artifact.Data))
	}

	if *geojsonOut {
		preview, err := sumogen.ExportToGeoJSON(net)
		if err != nil {
			return err
		}
		previewName := cfg.Name + ".geojson"
		if err := writeAtomic(filepath.Join(*outDir, previewName), preview); err != nil {
			return err
		}
		log.Infof("Wrote %s (%d bytes)", previewName, len(preview))
	}
	return nil
}

func buildDemand(cfg *ScenarioConfig, net *sumogen.NetworkModel) (*sumogen.DemandModel, error) {
	dm, err := sumogen.NewDemandModel(net)
	if err != nil {
		return nil, err
	}
	if len(cfg.VehicleTypes) == 0 {
		if err := dm.AddVehicleType(sumogen.DefaultPassengerCar()); err != nil {
			return nil, err
		}
	}
	for _, section := range cfg.VehicleTypes {
		vt := sumogen.DefaultPassengerCar()
		vt.ID = section.ID
		if section.Length > 0 {
			vt.LengthMeters = section.Length
		}
		if section.MinGap > 0 {
			vt.MinGapMeters = section.MinGap
		}
		if section.MaxSpeedKmh > 0 {
			vt.MaxSpeed = sumogen.KmhToMs(section.MaxSpeedKmh)
		}
		if section.Accel > 0 {
			vt.Accel = section.Accel
		}
		if section.Decel > 0 {
			vt.Decel = section.Decel
		}
		if section.Sigma > 0 {
			vt.Sigma = section.Sigma
		}
		if section.Tau > 0 {
			vt.Tau = section.Tau
		}
		if section.Class != "" {
			vt.VehicleClass = section.Class
		}
		if err := dm.AddVehicleType(vt); err != nil {
			return nil, err
		}
	}
	defaultType := dm.VehicleTypes()[0].ID
	for _, section := range cfg.Flows {
		flow := sumogen.Flow{
			ID:            section.ID,
			VehicleTypeID: section.Type,
			FromEdge:      sumogen.EdgeID(section.From),
			ToEdge:        sumogen.EdgeID(section.To),
			BeginSeconds:  section.Begin,
			EndSeconds:    section.End,
		}
		if flow.VehicleTypeID == "" {
			flow.VehicleTypeID = defaultType
		}
		switch {
		case section.VehsPerHour > 0 && section.Probability > 0:
			return nil, errors.Errorf("flow '%s' sets both vehs_per_hour and probability", section.ID)
		case section.Probability > 0:
			flow.RateType = sumogen.DEMAND_PROBABILITY
			flow.Probability = section.Probability
		default:
			flow.RateType = sumogen.DEMAND_VEHS_PER_HOUR
			flow.VehsPerHour = section.VehsPerHour
		}
		if _, err := dm.AddFlow(flow); err != nil {
			return nil, err
		}
	}
	return dm, nil
}

func buildSignals(cfg *ScenarioConfig, net *sumogen.NetworkModel, dm *sumogen.DemandModel, router *sumogen.Router) (*sumogen.SignalModel, error) {
	sm, err := sumogen.NewSignalModel(net)
	if err != nil {
		return nil, err
	}
	if !cfg.Signals.Optimize {
		return sm, nil
	}
	defaults := cfg.Signals.SignalDefaults()
	for _, nodeID := range sm.ControlledNodes() {
		plan, err := sm.OptimizeNode(dm, router, nodeID, defaults, cfg.Signals.Strict)
		if err != nil {
			return nil, err
		}
		if plan.CapacityExceeded {
			log.Warnf("Intersection '%s' is over capacity (Y=%.3f), cycle clamped to %d s", nodeID, plan.CriticalRatioSum, plan.CycleLengthSeconds)
		} else {
			log.Debugf("Intersection '%s': cycle %d s, est. delay %.1f s", nodeID, plan.CycleLengthSeconds, plan.AvgDelaySeconds)
		}
	}
	if len(cfg.Signals.Coordinate) >= 2 {
		chain := make([]sumogen.NodeID, len(cfg.Signals.Coordinate))
		for i, id := range cfg.Signals.Coordinate {
			chain[i] = sumogen.NodeID(id)
		}
		offsets, err := sm.CoordinateChain(router, chain)
		if err != nil {
			return nil, err
		}
		log.Infof("Coordinated %d intersections, offsets %v", len(chain), offsets)
	}
	return sm, nil
}

// writeAtomic writes the artifact next to its final location and renames it
// into place, so a failed run never leaves a partial file at the target
// path.
func writeAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return errors.Wrap(err, "Can't create output directory")
	}
	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp*")
	if err != nil {
		return errors.Wrap(err, "Can't create temporary file")
	}
	defer func() {
		tmp.Close()
		os.Remove(tmp.Name())
	}()
	if _, err := tmp.Write(data); err != nil {
		return errors.Wrap(err, "Can't write artifact")
	}
	if err := tmp.Sync(); err != nil {
		return errors.Wrap(err, "Can't flush artifact")
	}
	if err := tmp.Close(); err != nil {
		return errors.Wrap(err, "Can't close artifact")
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return errors.Wrap(err, "Can't move artifact into place")
	}
	return nil
}
