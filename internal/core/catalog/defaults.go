package catalog

var (
	singleOut = []Handle{{ID: "out", Label: "Output"}}
	singleIn  = []Handle{{ID: "in", Label: "Input"}}
)

// builtin is the component set shipped with the editor
var builtin = []Entry{
	{
		Kind: KindSource, Name: "Database", Description: "Connect to database sources",
		Icon: IconSource, Category: CategorySource,
		Outputs:       singleOut,
		DefaultConfig: map[string]interface{}{"name": "New Data Source"},
	},
	{
		Kind: KindSource, Name: "File Upload", Description: "Upload CSV, JSON, or Excel files",
		Icon: IconUpload, Category: CategorySource,
		Outputs:       singleOut,
		DefaultConfig: map[string]interface{}{"name": "New File Upload"},
	},
	{
		Kind: KindSource, Name: "API Source", Description: "Fetch data from REST APIs",
		Icon: IconDownload, Category: CategorySource,
		Outputs:       singleOut,
		DefaultConfig: map[string]interface{}{"name": "New API Source"},
	},
	{
		Kind: KindFilter, Name: "Filter", Description: "Filter rows based on conditions",
		Icon: IconFilter, Category: CategoryTransform,
		Inputs: singleIn, Outputs: singleOut,
		DefaultConfig: map[string]interface{}{"name": "New Filter", "condition": ""},
	},
	{
		Kind: KindTransform, Name: "Calculator", Description: "Perform calculations and transformations",
		Icon: IconCalculator, Category: CategoryTransform,
		Inputs: singleIn, Outputs: singleOut,
		DefaultConfig: map[string]interface{}{"name": "New Calculation", "expression": ""},
	},
	{
		Kind: KindJoin, Name: "Join", Description: "Join multiple data sources",
		Icon: IconJoin, Category: CategoryTransform,
		Inputs:        []Handle{{ID: "in1", Label: "Input 1"}, {ID: "in2", Label: "Input 2"}},
		Outputs:       singleOut,
		DefaultConfig: map[string]interface{}{"name": "New Join", "joinType": "INNER", "on": ""},
	},
	{
		Kind: KindAggregate, Name: "Aggregate", Description: "Group and summarize data",
		Icon: IconAggregate, Category: CategoryTransform,
		Inputs: singleIn, Outputs: singleOut,
		DefaultConfig: map[string]interface{}{"name": "New Aggregation", "operation": "SUM", "groupBy": ""},
	},
	{
		Kind: KindTransform, Name: "Distinct", Description: "Remove duplicate rows",
		Icon: IconDistinct, Category: CategoryTransform,
		Inputs: singleIn, Outputs: singleOut,
		DefaultConfig: map[string]interface{}{"name": "New Distinct"},
	},
	{
		Kind: KindTransform, Name: "AI Classify", Description: "Classify data using AI",
		Icon: IconSparkles, Category: CategoryAI,
		Inputs: singleIn, Outputs: singleOut,
		DefaultConfig: map[string]interface{}{"name": "New AI Classification"},
	},
	{
		Kind: KindTransform, Name: "AI Extract", Description: "Extract insights from text",
		Icon: IconFileText, Category: CategoryAI,
		Inputs: singleIn, Outputs: singleOut,
		DefaultConfig: map[string]interface{}{"name": "New AI Extraction"},
	},
	{
		Kind: KindTransform, Name: "AI Data Deep Insights", Description: "Uncover hidden patterns in data",
		Icon: IconLightbulb, Category: CategoryAI,
		Inputs: singleIn, Outputs: singleOut,
		DefaultConfig: map[string]interface{}{"name": "New Deep Insights"},
	},
	{
		Kind: KindTransform, Name: "Advanced Analytics Agents", Description: "Deploy autonomous analytics agents",
		Icon: IconBot, Category: CategoryAI,
		Inputs: singleIn, Outputs: singleOut,
		DefaultConfig: map[string]interface{}{"name": "New Analytics Agent"},
	},
	{
		Kind: KindTransform, Name: "ML Model Training", Description: "Train custom machine learning models",
		Icon: IconCPU, Category: CategoryAI,
		Inputs:        singleIn,
		Outputs:       []Handle{{ID: "out", Label: "Model"}},
		DefaultConfig: map[string]interface{}{"name": "New Model Training"},
	},
	{
		Kind: KindTransform, Name: "2D/3D Gravity Inversion", Description: "Model subsurface density from gravity data",
		Icon: IconGravity, Category: CategoryGeoscience,
		Inputs:        []Handle{{ID: "in", Label: "Gravity Data"}},
		Outputs:       []Handle{{ID: "out", Label: "Density Model"}},
		DefaultConfig: map[string]interface{}{"name": "New Gravity Inversion"},
	},
	{
		Kind: KindTransform, Name: "2D/3D Conductivity Joint Inversion", Description: "Jointly invert multiple conductivity datasets",
		Icon: IconConductivity, Category: CategoryGeoscience,
		Inputs:        []Handle{{ID: "in1", Label: "Data 1"}, {ID: "in2", Label: "Data 2"}},
		Outputs:       []Handle{{ID: "out", Label: "Conductivity Model"}},
		DefaultConfig: map[string]interface{}{"name": "New Joint Inversion"},
	},
	{
		Kind: KindTransform, Name: "Resistivity Inversion", Description: "Model subsurface resistivity from electrical data",
		Icon: IconResistivity, Category: CategoryGeoscience,
		Inputs:        []Handle{{ID: "in", Label: "Resistivity Data"}},
		Outputs:       []Handle{{ID: "out", Label: "Resistivity Model"}},
		DefaultConfig: map[string]interface{}{"name": "New Resistivity Inversion"},
	},
	{
		Kind: KindTransform, Name: "IP Inversion", Description: "Model chargeability from Induced Polarization data",
		Icon: IconIP, Category: CategoryGeoscience,
		Inputs:        []Handle{{ID: "in", Label: "IP Data"}},
		Outputs:       []Handle{{ID: "out", Label: "Chargeability Model"}},
		DefaultConfig: map[string]interface{}{"name": "New IP Inversion"},
	},
}

var defaultCatalog = MustNew(builtin...)

// Default returns the built-in catalog
func Default() *Catalog {
	return defaultCatalog
}
