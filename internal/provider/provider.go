package provider

import (
	"context"

	"github.com/hashicorp/terraform-plugin-framework/datasource"
	"github.com/hashicorp/terraform-plugin-framework/provider"
	"github.com/hashicorp/terraform-plugin-framework/provider/schema"
	"github.com/hashicorp/terraform-plugin-framework/resource"
	"github.com/hashicorp/terraform-plugin-log/tflog"
)

// Ensure CartographyProvider satisfies various provider interfaces.
var _ provider.Provider = &CartographyProvider{}

// CartographyProvider defines the provider implementation.
type CartographyProvider struct {
	// version is set to the provider version on release, "dev" when the
	// provider is built and ran locally, and "test" when running acceptance
	// testing.
	version string
}

func (p *CartographyProvider) Metadata(ctx context.Context, req provider.MetadataRequest, resp *provider.MetadataResponse) {
	resp.TypeName = "cartography"
	resp.Version = p.version
}

func (p *CartographyProvider) Schema(ctx context.Context, req provider.SchemaRequest, resp *provider.SchemaResponse) {
	resp.Schema = schema.Schema{
		Description: "The Cartography provider renders the CloudTrail security and compliance architecture diagram as part of a Terraform run.",
	}
}

// Configure has nothing to read: the diagram is fully described by the
// resource and data source arguments.
func (p *CartographyProvider) Configure(ctx context.Context, req provider.ConfigureRequest, resp *provider.ConfigureResponse) {
	tflog.Debug(ctx, "Configuring cartography provider", map[string]interface{}{
		"version": p.version,
	})
}

func (p *CartographyProvider) Resources(ctx context.Context) []func() resource.Resource {
	return []func() resource.Resource{
		NewDiagramResource,
	}
}

func (p *CartographyProvider) DataSources(ctx context.Context) []func() datasource.DataSource {
	return []func() datasource.DataSource{
		NewDiagramDataSource,
	}
}

func New(version string) func() provider.Provider {
	return func() provider.Provider {
		return &CartographyProvider{
			version: version,
		}
	}
}
