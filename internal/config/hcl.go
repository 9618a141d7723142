package config

import (
	"os"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/hashicorp/hcl/v2/hclwrite"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/function"
)

// hclDocument mirrors Config for HCL files. Every block is optional and
// only the attributes present in the file override the defaults.
type hclDocument struct {
	Version string        `hcl:"version,optional"`
	Prices  *PricesConfig `hcl:"prices,block"`
	Output  *OutputConfig `hcl:"output,block"`
	Server  *ServerConfig `hcl:"server,block"`
	Logging *hclLogging   `hcl:"logging,block"`
}

type hclLogging struct {
	Level       string `hcl:"level,optional"`
	Format      string `hcl:"format,optional"`
	Output      string `hcl:"output,optional"`
	Development bool   `hcl:"development,optional"`
}

var envFunc = function.New(&function.Spec{
	Params: []function.Parameter{{Name: "name", Type: cty.String}},
	Type:   function.StaticReturnType(cty.String),
	Impl: func(args []cty.Value, _ cty.Type) (cty.Value, error) {
		return cty.StringVal(os.Getenv(args[0].AsString())), nil
	},
})

func evalContext() *hcl.EvalContext {
	home, _ := os.UserHomeDir()
	cwd, _ := os.Getwd()
	return &hcl.EvalContext{
		Variables: map[string]cty.Value{
			"home": cty.StringVal(home),
			"cwd":  cty.StringVal(cwd),
		},
		Functions: map[string]function.Function{
			"env": envFunc,
		},
	}
}

func decodeHCL(path string, data []byte, config *Config) error {
	file, diags := hclparse.NewParser().ParseHCL(data, path)
	if diags.HasErrors() {
		return diags
	}

	var doc hclDocument
	if diags := gohcl.DecodeBody(file.Body, evalContext(), &doc); diags.HasErrors() {
		return diags
	}

	setString(&config.Version, doc.Version)
	if p := doc.Prices; p != nil {
		setString(&config.Prices.FlatDir, p.FlatDir)
		setString(&config.Prices.MatrixDir, p.MatrixDir)
		setString(&config.Prices.TriangleDir, p.TriangleDir)
		setString(&config.Prices.AliasFile, p.AliasFile)
		setString(&config.Prices.Encoding, p.Encoding)
		setInt(&config.Prices.DefaultYear, p.DefaultYear)
	}
	if o := doc.Output; o != nil {
		setString(&config.Output.File, o.File)
		setString(&config.Output.Format, o.Format)
	}
	if s := doc.Server; s != nil {
		setString(&config.Server.Addr, s.Addr)
		setInt(&config.Server.ShutdownTimeoutSeconds, s.ShutdownTimeoutSeconds)
	}
	if l := doc.Logging; l != nil {
		setString(&config.Logging.Level, l.Level)
		setString(&config.Logging.Format, l.Format)
		setString(&config.Logging.Output, l.Output)
		config.Logging.Development = config.Logging.Development || l.Development
	}
	return nil
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

func setInt(dst *int, v int) {
	if v != 0 {
		*dst = v
	}
}

func encodeHCL(c *Config) []byte {
	file := hclwrite.NewEmptyFile()
	root := file.Body()
	root.SetAttributeValue("version", cty.StringVal(c.Version))

	root.AppendNewline()
	prices := root.AppendNewBlock("prices", nil).Body()
	prices.SetAttributeValue("flat_dir", cty.StringVal(c.Prices.FlatDir))
	prices.SetAttributeValue("matrix_dir", cty.StringVal(c.Prices.MatrixDir))
	prices.SetAttributeValue("triangle_dir", cty.StringVal(c.Prices.TriangleDir))
	prices.SetAttributeValue("alias_file", cty.StringVal(c.Prices.AliasFile))
	prices.SetAttributeValue("encoding", cty.StringVal(c.Prices.Encoding))
	prices.SetAttributeValue("default_year", cty.NumberIntVal(int64(c.Prices.DefaultYear)))

	root.AppendNewline()
	output := root.AppendNewBlock("output", nil).Body()
	output.SetAttributeValue("file", cty.StringVal(c.Output.File))
	output.SetAttributeValue("format", cty.StringVal(c.Output.Format))

	root.AppendNewline()
	server := root.AppendNewBlock("server", nil).Body()
	server.SetAttributeValue("addr", cty.StringVal(c.Server.Addr))
	server.SetAttributeValue("shutdown_timeout_seconds", cty.NumberIntVal(int64(c.Server.ShutdownTimeoutSeconds)))

	root.AppendNewline()
	logging := root.AppendNewBlock("logging", nil).Body()
	logging.SetAttributeValue("level", cty.StringVal(c.Logging.Level))
	logging.SetAttributeValue("format", cty.StringVal(c.Logging.Format))
	logging.SetAttributeValue("output", cty.StringVal(c.Logging.Output))
	logging.SetAttributeValue("development", cty.BoolVal(c.Logging.Development))

	return file.Bytes()
}
