package provider

import (
	"context"
	"crypto/sha256"
	"fmt"

	"github.com/hashicorp/terraform-plugin-framework-validators/int64validator"
	"github.com/hashicorp/terraform-plugin-framework-validators/stringvalidator"
	"github.com/hashicorp/terraform-plugin-framework/datasource"
	"github.com/hashicorp/terraform-plugin-framework/datasource/schema"
	"github.com/hashicorp/terraform-plugin-framework/schema/validator"
	"github.com/hashicorp/terraform-plugin-framework/types"
)

// Ensure provider defined types fully satisfy framework interfaces.
var _ datasource.DataSource = &DiagramDataSource{}

// DiagramDataSource defines the data source implementation.
type DiagramDataSource struct {
	generator *DiagramGenerator
}

func NewDiagramDataSource() datasource.DataSource {
	return &DiagramDataSource{
		generator: &DiagramGenerator{},
	}
}

// DiagramDataSourceModel describes the data source data model.
type DiagramDataSourceModel struct {
	ID         types.String `tfsdk:"id"`
	OutputPath types.String `tfsdk:"output_path"`
	Format     types.String `tfsdk:"format"`
	DPI        types.Int64  `tfsdk:"dpi"`
	Checksum   types.String `tfsdk:"checksum"`
	NodeCount  types.Int64  `tfsdk:"node_count"`
	EdgeCount  types.Int64  `tfsdk:"edge_count"`
}

func (d *DiagramDataSource) Metadata(ctx context.Context, req datasource.MetadataRequest, resp *datasource.MetadataResponse) {
	resp.TypeName = req.ProviderTypeName + "_cloudtrail_diagram"
}

func (d *DiagramDataSource) Schema(ctx context.Context, req datasource.SchemaRequest, resp *datasource.SchemaResponse) {
	resp.Schema = schema.Schema{
		MarkdownDescription: "Renders the CloudTrail security and compliance architecture diagram and reports what it contains.",

		Attributes: map[string]schema.Attribute{
			"id": schema.StringAttribute{
				Computed:            true,
				MarkdownDescription: "Data source identifier",
			},
			"output_path": schema.StringAttribute{
				MarkdownDescription: "Path where the diagram will be saved.",
				Required:            true,
				Validators: []validator.String{
					stringvalidator.LengthAtLeast(1),
				},
			},
			"format": schema.StringAttribute{
				MarkdownDescription: "Output format: 'png' or 'svg'. Default is 'png'.",
				Optional:            true,
				Computed:            true,
				Validators: []validator.String{
					stringvalidator.OneOf("png", "svg"),
				},
			},
			"dpi": schema.Int64Attribute{
				MarkdownDescription: "Raster resolution for PNG output, in dots per inch. Default is 300.",
				Optional:            true,
				Computed:            true,
				Validators: []validator.Int64{
					int64validator.Between(72, 600),
				},
			},
			"checksum": schema.StringAttribute{
				MarkdownDescription: "Hex SHA-256 of the written diagram.",
				Computed:            true,
			},
			"node_count": schema.Int64Attribute{
				MarkdownDescription: "Number of service boxes in the diagram.",
				Computed:            true,
			},
			"edge_count": schema.Int64Attribute{
				MarkdownDescription: "Number of data-flow arrows in the diagram.",
				Computed:            true,
			},
		},
	}
}

func (d *DiagramDataSource) Configure(ctx context.Context, req datasource.ConfigureRequest, resp *datasource.ConfigureResponse) {
}

func (d *DiagramDataSource) Read(ctx context.Context, req datasource.ReadRequest, resp *datasource.ReadResponse) {
	var data DiagramDataSourceModel

	resp.Diagnostics.Append(req.Config.Get(ctx, &data)...)
	if resp.Diagnostics.HasError() {
		return
	}

	// Set defaults
	format := defaultFormat
	if !data.Format.IsNull() && data.Format.ValueString() != "" {
		format = data.Format.ValueString()
	}
	data.Format = types.StringValue(format)

	dpi := int64(defaultDPI)
	if !data.DPI.IsNull() {
		dpi = data.DPI.ValueInt64()
	}
	data.DPI = types.Int64Value(dpi)

	result, err := d.generator.Generate(ctx, DiagramConfig{
		OutputPath: data.OutputPath.ValueString(),
		Format:     format,
		DPI:        dpi,
	})
	if err != nil {
		resp.Diagnostics.AddError("Failed to generate diagram", err.Error())
		return
	}

	data.Checksum = types.StringValue(result.Checksum)
	data.NodeCount = types.Int64Value(result.NodeCount)
	data.EdgeCount = types.Int64Value(result.EdgeCount)

	// Generate ID based on the request
	hash := sha256.Sum256([]byte(fmt.Sprintf("%s_%s_%d", data.OutputPath.ValueString(), format, dpi)))
	data.ID = types.StringValue(fmt.Sprintf("%x", hash[:8]))

	resp.Diagnostics.Append(resp.State.Set(ctx, &data)...)
}
