// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package wgsl

import (
	"fmt"

	"github.com/gogpu/gfx"
	"github.com/gogpu/naga"
)

// ShaderDesc reflects source and returns the description of one stage.
// Both stages of a program built from the same module see every binding.
func ShaderDesc(source string, stage gfx.ShaderStage) (*gfx.ShaderDesc, error) {
	r, err := Reflect(source)
	if err != nil {
		return nil, err
	}
	return r.desc(stage, gfx.ShaderLanguageWGSL, []byte(source))
}

// SPIRVShaderDesc is ShaderDesc with the source compiled to SPIR-V, for
// drivers that do not accept WGSL.
func SPIRVShaderDesc(source string, stage gfx.ShaderStage) (*gfx.ShaderDesc, error) {
	r, err := Reflect(source)
	if err != nil {
		return nil, err
	}
	code, err := CompileSPIRV(source)
	if err != nil {
		return nil, err
	}
	return r.desc(stage, gfx.ShaderLanguageSPIRV, code)
}

func (r *Reflection) desc(stage gfx.ShaderStage, lang gfx.ShaderLanguage, src []byte) (*gfx.ShaderDesc, error) {
	entry, ok := r.EntryPoint(stage)
	if !ok {
		return nil, fmt.Errorf("%w %d", ErrNoEntryPoint, stage)
	}
	d := &gfx.ShaderDesc{
		Stage:      stage,
		Language:   lang,
		Source:     src,
		EntryPoint: entry,
		Resources:  append([]gfx.ShaderResource(nil), r.Resources...),
	}
	if stage == gfx.ShaderStageVertex {
		d.Inputs = append([]gfx.ShaderInput(nil), r.Inputs...)
	}
	return d, nil
}

// CompileSPIRV compiles source to a little-endian SPIR-V binary.
func CompileSPIRV(source string) ([]byte, error) {
	code, err := naga.Compile(source)
	if err != nil {
		return nil, fmt.Errorf("wgsl: %w", err)
	}
	return code, nil
}
