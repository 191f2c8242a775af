package provider

import (
	"context"
	"os"

	"github.com/hashicorp/terraform-plugin-framework-validators/int64validator"
	"github.com/hashicorp/terraform-plugin-framework-validators/stringvalidator"
	"github.com/hashicorp/terraform-plugin-framework/diag"
	"github.com/hashicorp/terraform-plugin-framework/path"
	"github.com/hashicorp/terraform-plugin-framework/resource"
	"github.com/hashicorp/terraform-plugin-framework/resource/schema"
	"github.com/hashicorp/terraform-plugin-framework/resource/schema/int64default"
	"github.com/hashicorp/terraform-plugin-framework/resource/schema/planmodifier"
	"github.com/hashicorp/terraform-plugin-framework/resource/schema/stringdefault"
	"github.com/hashicorp/terraform-plugin-framework/resource/schema/stringplanmodifier"
	"github.com/hashicorp/terraform-plugin-framework/schema/validator"
	"github.com/hashicorp/terraform-plugin-framework/types"
	"github.com/hashicorp/terraform-plugin-log/tflog"
)

// Ensure provider defined types fully satisfy framework interfaces.
var _ resource.Resource = &DiagramResource{}
var _ resource.ResourceWithImportState = &DiagramResource{}

func NewDiagramResource() resource.Resource {
	return &DiagramResource{
		generator: &DiagramGenerator{},
	}
}

// DiagramResource defines the resource implementation.
type DiagramResource struct {
	generator *DiagramGenerator
}

// DiagramResourceModel describes the resource data model.
type DiagramResourceModel struct {
	ID         types.String `tfsdk:"id"`
	OutputPath types.String `tfsdk:"output_path"`
	Format     types.String `tfsdk:"format"`
	DPI        types.Int64  `tfsdk:"dpi"`
	Checksum   types.String `tfsdk:"checksum"`
}

func (r *DiagramResource) Metadata(ctx context.Context, req resource.MetadataRequest, resp *resource.MetadataResponse) {
	resp.TypeName = req.ProviderTypeName + "_cloudtrail_diagram"
}

func (r *DiagramResource) Schema(ctx context.Context, req resource.SchemaRequest, resp *resource.SchemaResponse) {
	resp.Schema = schema.Schema{
		MarkdownDescription: "Renders the CloudTrail security and compliance architecture diagram to a file.",

		Attributes: map[string]schema.Attribute{
			"id": schema.StringAttribute{
				Computed:            true,
				MarkdownDescription: "Resource identifier, the output path.",
				PlanModifiers: []planmodifier.String{
					stringplanmodifier.UseStateForUnknown(),
				},
			},
			"output_path": schema.StringAttribute{
				MarkdownDescription: "Path where the diagram will be saved. The parent directory must exist.",
				Required:            true,
				Validators: []validator.String{
					stringvalidator.LengthAtLeast(1),
				},
				PlanModifiers: []planmodifier.String{
					stringplanmodifier.RequiresReplace(),
				},
			},
			"format": schema.StringAttribute{
				MarkdownDescription: "Output format: 'png' or 'svg'. Default is 'png'.",
				Optional:            true,
				Computed:            true,
				Default:             stringdefault.StaticString(defaultFormat),
				Validators: []validator.String{
					stringvalidator.OneOf("png", "svg"),
				},
			},
			"dpi": schema.Int64Attribute{
				MarkdownDescription: "Raster resolution for PNG output, in dots per inch. Default is 300.",
				Optional:            true,
				Computed:            true,
				Default:             int64default.StaticInt64(defaultDPI),
				Validators: []validator.Int64{
					int64validator.Between(72, 600),
				},
			},
			"checksum": schema.StringAttribute{
				MarkdownDescription: "Hex SHA-256 of the written diagram.",
				Computed:            true,
			},
		},
	}
}

func (r *DiagramResource) Configure(ctx context.Context, req resource.ConfigureRequest, resp *resource.ConfigureResponse) {
}

func (r *DiagramResource) Create(ctx context.Context, req resource.CreateRequest, resp *resource.CreateResponse) {
	var data DiagramResourceModel

	resp.Diagnostics.Append(req.Plan.Get(ctx, &data)...)
	if resp.Diagnostics.HasError() {
		return
	}

	resp.Diagnostics.Append(r.generate(ctx, &data)...)
	if resp.Diagnostics.HasError() {
		return
	}

	resp.Diagnostics.Append(resp.State.Set(ctx, &data)...)
}

func (r *DiagramResource) Read(ctx context.Context, req resource.ReadRequest, resp *resource.ReadResponse) {
	var data DiagramResourceModel

	resp.Diagnostics.Append(req.State.Get(ctx, &data)...)
	if resp.Diagnostics.HasError() {
		return
	}

	// Check if output file still exists
	checksum, err := fileChecksum(data.OutputPath.ValueString())
	if err != nil {
		if _, statErr := os.Stat(data.OutputPath.ValueString()); os.IsNotExist(statErr) {
			tflog.Info(ctx, "Diagram file removed outside Terraform", map[string]interface{}{
				"output_path": data.OutputPath.ValueString(),
			})
			resp.State.RemoveResource(ctx)
			return
		}
		resp.Diagnostics.AddError("Failed to read diagram", err.Error())
		return
	}
	data.Checksum = types.StringValue(checksum)

	resp.Diagnostics.Append(resp.State.Set(ctx, &data)...)
}

func (r *DiagramResource) Update(ctx context.Context, req resource.UpdateRequest, resp *resource.UpdateResponse) {
	var data DiagramResourceModel

	resp.Diagnostics.Append(req.Plan.Get(ctx, &data)...)
	if resp.Diagnostics.HasError() {
		return
	}

	// Re-render the diagram with updated configuration
	resp.Diagnostics.Append(r.generate(ctx, &data)...)
	if resp.Diagnostics.HasError() {
		return
	}

	resp.Diagnostics.Append(resp.State.Set(ctx, &data)...)
}

func (r *DiagramResource) Delete(ctx context.Context, req resource.DeleteRequest, resp *resource.DeleteResponse) {
	var data DiagramResourceModel

	resp.Diagnostics.Append(req.State.Get(ctx, &data)...)
	if resp.Diagnostics.HasError() {
		return
	}

	// The rendered file is left in place
	tflog.Debug(ctx, "Removing diagram from state", map[string]interface{}{
		"output_path": data.OutputPath.ValueString(),
	})
}

func (r *DiagramResource) ImportState(ctx context.Context, req resource.ImportStateRequest, resp *resource.ImportStateResponse) {
	resource.ImportStatePassthroughID(ctx, path.Root("id"), req, resp)
	resp.Diagnostics.Append(resp.State.SetAttribute(ctx, path.Root("output_path"), req.ID)...)
	resp.Diagnostics.Append(resp.State.SetAttribute(ctx, path.Root("format"), defaultFormat)...)
	resp.Diagnostics.Append(resp.State.SetAttribute(ctx, path.Root("dpi"), int64(defaultDPI))...)
}

// generate renders the diagram described by data and fills in its computed
// attributes.
func (r *DiagramResource) generate(ctx context.Context, data *DiagramResourceModel) diag.Diagnostics {
	var diags diag.Diagnostics

	result, err := r.generator.Generate(ctx, DiagramConfig{
		OutputPath: data.OutputPath.ValueString(),
		Format:     data.Format.ValueString(),
		DPI:        data.DPI.ValueInt64(),
	})
	if err != nil {
		diags.AddError("Failed to generate diagram", err.Error())
		return diags
	}

	data.ID = types.StringValue(result.OutputPath)
	data.Checksum = types.StringValue(result.Checksum)
	return diags
}
