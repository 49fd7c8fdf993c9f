package mcp

import (
	"context"
	"errors"
	"fmt"
	"math"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/1broseidon/gammactl/internal/backend"
	"github.com/1broseidon/gammactl/internal/gammaerr"
	"github.com/1broseidon/gammactl/internal/method"
	"github.com/1broseidon/gammactl/internal/ramp"
	"github.com/1broseidon/gammactl/internal/session"
)

func (s *Server) handleListMethods(_ context.Context, _ *mcpsdk.CallToolRequest, args ListMethodsInput) (*mcpsdk.CallToolResult, ListMethodsOutput, error) {
	filter := backend.FilterAll
	if args.Filter != nil {
		filter = backend.Filter(*args.Filter)
	}
	reg := s.session.Registry()
	ids, err := reg.ListMethods(filter)
	if err != nil {
		return nil, ListMethodsOutput{}, err
	}

	out := ListMethodsOutput{Methods: make([]MethodEntry, 0, len(ids))}
	for _, id := range ids {
		entry := MethodEntry{ID: int(id), Name: id.String()}
		if site, ok := reg.MethodDefaultSite(id); ok {
			entry.DefaultSite = site
		}
		if v, ok := reg.MethodDefaultSiteVariable(id); ok {
			entry.SiteVariable = v
		}
		out.Methods = append(out.Methods, entry)
	}
	return nil, out, nil
}

func (s *Server) handleMethodCapabilities(_ context.Context, _ *mcpsdk.CallToolRequest, args MethodCapabilitiesInput) (*mcpsdk.CallToolResult, MethodCapabilitiesOutput, error) {
	id, err := method.Parse(args.Method)
	if err != nil {
		return nil, MethodCapabilitiesOutput{}, err
	}
	caps, err := s.session.Registry().MethodCapabilities(id)
	if err != nil {
		return nil, MethodCapabilitiesOutput{}, err
	}
	return nil, capabilitiesOutput(id, caps), nil
}

func capabilitiesOutput(id method.ID, caps method.Capabilities) MethodCapabilitiesOutput {
	out := MethodCapabilitiesOutput{
		Method:                     id.String(),
		CRTCInformation:            []string{},
		DefaultSiteKnown:           caps.DefaultSiteKnown,
		MultipleSites:              caps.MultipleSites,
		MultiplePartitions:         caps.MultiplePartitions,
		MultipleCRTCs:              caps.MultipleCRTCs,
		PartitionsAreGraphicsCards: caps.PartitionsAreGraphicsCards,
		SiteRestore:                caps.SiteRestore,
		PartitionRestore:           caps.PartitionRestore,
		CRTCRestore:                caps.CRTCRestore,
		IdenticalGammaSizes:        caps.IdenticalGammaSizes,
		FixedGammaSize:             caps.FixedGammaSize,
		FixedGammaDepth:            caps.FixedGammaDepth,
		Real:                       caps.Real,
		Fake:                       caps.Fake,
	}
	for _, f := range caps.CRTCInformation.Fields() {
		out.CRTCInformation = append(out.CRTCInformation, f.String())
	}
	return out
}

func (s *Server) handleCRTCInformation(_ context.Context, _ *mcpsdk.CallToolRequest, args CRTCInformationInput) (*mcpsdk.CallToolResult, CRTCInformationOutput, error) {
	fields := method.InfoAll
	if args.Fields != "" {
		var err error
		if fields, err = method.ParseInfoFields(args.Fields); err != nil {
			return nil, CRTCInformationOutput{}, err
		}
	}
	c, err := s.session.CRTC(session.Target{Method: args.Method, Site: args.Site, Partition: args.Partition, CRTC: args.CRTC})
	if err != nil {
		return nil, CRTCInformationOutput{}, err
	}

	info, qerr := c.Information(fields)
	if info == nil {
		return nil, CRTCInformationOutput{}, qerr
	}
	out := CRTCInformationOutput{Fields: make(map[string]FieldResult)}
	for _, f := range fields.Fields() {
		res := FieldResult{Value: info.Value(f)}
		if ferr := info.Err(f); ferr != nil {
			res.Error = errorName(gammaerr.Of(ferr, gammaerr.StateUnknown))
		}
		out.Fields[f.String()] = res
	}
	if qerr != nil {
		out.Error = qerr.Error()
	}
	return nil, out, nil
}

func (s *Server) handleGetRamps(_ context.Context, _ *mcpsdk.CallToolRequest, args GetRampsInput) (*mcpsdk.CallToolResult, RampsOutput, error) {
	c, err := s.session.CRTC(session.Target{Method: args.Method, Site: args.Site, Partition: args.Partition, CRTC: args.CRTC})
	if err != nil {
		return nil, RampsOutput{}, err
	}
	store, err := session.CurrentRamps(c)
	if err != nil {
		return nil, RampsOutput{}, err
	}
	return nil, RampsOutput{
		Depth: store.Depth().String(),
		Red:   ramp.UnitValues(store, ramp.Red),
		Green: ramp.UnitValues(store, ramp.Green),
		Blue:  ramp.UnitValues(store, ramp.Blue),
	}, nil
}

func (s *Server) handleSetRamps(_ context.Context, _ *mcpsdk.CallToolRequest, args SetRampsInput) (*mcpsdk.CallToolResult, SetRampsOutput, error) {
	explicit := args.Red != nil || args.Green != nil || args.Blue != nil
	if explicit == (args.Scale != nil) {
		return nil, SetRampsOutput{}, errors.New("set_ramps needs either scale or red, green and blue")
	}

	c, err := s.session.CRTC(session.Target{Method: args.Method, Site: args.Site, Partition: args.Partition, CRTC: args.CRTC})
	if err != nil {
		return nil, SetRampsOutput{}, err
	}
	store, err := session.NewStoreFor(c)
	if err != nil {
		return nil, SetRampsOutput{}, err
	}

	if explicit {
		for _, ch := range []struct {
			colour ramp.Colour
			values []float64
		}{{ramp.Red, args.Red}, {ramp.Green, args.Green}, {ramp.Blue, args.Blue}} {
			if err := ramp.SetUnitValues(store, ch.colour, ch.values); err != nil {
				return nil, SetRampsOutput{}, err
			}
		}
	} else {
		if math.IsNaN(*args.Scale) || math.IsInf(*args.Scale, 0) || *args.Scale < 0 {
			return nil, SetRampsOutput{}, fmt.Errorf("scale must be a finite number >= 0 (got %g)", *args.Scale)
		}
		ramp.Identity(store)
		ramp.Scale(store, *args.Scale)
	}

	if err := c.SetGamma(store); err != nil {
		return nil, SetRampsOutput{}, err
	}
	s.log.Info("ramps applied", "method", c.Partition.Site.Method.String(), "partition", c.Partition.Index, "crtc", c.Index)
	return nil, SetRampsOutput{Sizes: store.Sizes().String(), Depth: store.Depth().String()}, nil
}

func (s *Server) handleRestore(_ context.Context, _ *mcpsdk.CallToolRequest, args RestoreInput) (*mcpsdk.CallToolResult, RestoreOutput, error) {
	level, err := session.ParseLevel(args.Level)
	if err != nil {
		return nil, RestoreOutput{}, err
	}
	target := session.Target{Method: args.Method, Site: args.Site, Partition: args.Partition, CRTC: args.CRTC}
	if err := s.session.Restore(target, level); err != nil {
		return nil, RestoreOutput{}, err
	}
	return nil, RestoreOutput{Level: string(level)}, nil
}

func (s *Server) handleErrorName(_ context.Context, _ *mcpsdk.CallToolRequest, args ErrorNameInput) (*mcpsdk.CallToolResult, ErrorNameOutput, error) {
	var code gammaerr.Code
	switch {
	case args.Code != nil && args.Name != "":
		return nil, ErrorNameOutput{}, errors.New("pass either code or name, not both")
	case args.Code != nil:
		code = gammaerr.Code(*args.Code)
	case args.Name != "":
		code = gammaerr.ValueOf(args.Name)
		if code == gammaerr.OK {
			return nil, ErrorNameOutput{}, fmt.Errorf("unknown error name %q", args.Name)
		}
	default:
		return nil, ErrorNameOutput{}, errors.New("code or name is required")
	}

	out := ErrorNameOutput{
		Code:        int(code),
		Kind:        gammaerr.Classify(code).Kind.String(),
		Description: gammaerr.Describe(code),
	}
	if name, ok := gammaerr.Name(code); ok {
		out.Name = name
	}
	return nil, out, nil
}

// errorName renders code by name when it has one and by description
// otherwise.
func errorName(code gammaerr.Code) string {
	if name, ok := gammaerr.Name(code); ok {
		return name
	}
	return gammaerr.Describe(code)
}
