package schema

// Schema is the catalog of tables the report pipeline loads.
type Schema struct {
	Name   string  `yaml:"name"`
	Tables []Table `yaml:"tables"`
}

// Table describes one input table and the columns the analyses rely on.
type Table struct {
	Name        string       `yaml:"name"`
	Columns     []Column     `yaml:"columns,omitempty"`
	PrimaryKey  *PrimaryKey  `yaml:"primary_key,omitempty"`
	ForeignKeys []ForeignKey `yaml:"foreign_keys,omitempty"`
}

// Column is a required column. DataType is informational (int, float, text, date, flag).
type Column struct {
	Name     string `yaml:"name"`
	DataType string `yaml:"data_type"`
}

// PrimaryKey represents a table's key columns.
type PrimaryKey struct {
	Columns []string `yaml:"columns"`
}

// ForeignKey represents a join used by the analyses.
type ForeignKey struct {
	Columns           []string `yaml:"columns"`
	ReferencedTable   string   `yaml:"referenced_table"`
	ReferencedColumns []string `yaml:"referenced_columns"`
}

// Names returns the table names in catalog order.
func (s *Schema) Names() []string {
	names := make([]string, len(s.Tables))
	for i, t := range s.Tables {
		names[i] = t.Name
	}
	return names
}

// Table returns the named table definition, or nil.
func (s *Schema) Table(name string) *Table {
	for i := range s.Tables {
		if s.Tables[i].Name == name {
			return &s.Tables[i]
		}
	}
	return nil
}

// Northwind returns the fixed catalog of the twelve sales tables.
// Only the five tables the analyses join carry required columns.
func Northwind() *Schema {
	return &Schema{
		Name: "northwind",
		Tables: []Table{
			{
				Name: "orders",
				Columns: []Column{
					{Name: "order_id", DataType: "int"},
					{Name: "customer_id", DataType: "text"},
					{Name: "order_date", DataType: "date"},
					{Name: "ship_country", DataType: "text"},
				},
				PrimaryKey: &PrimaryKey{Columns: []string{"order_id"}},
				ForeignKeys: []ForeignKey{
					{Columns: []string{"customer_id"}, ReferencedTable: "customers", ReferencedColumns: []string{"customer_id"}},
				},
			},
			{
				Name: "order_details",
				Columns: []Column{
					{Name: "order_id", DataType: "int"},
					{Name: "product_id", DataType: "int"},
					{Name: "unit_price", DataType: "float"},
					{Name: "quantity", DataType: "int"},
					{Name: "discount", DataType: "float"},
				},
				PrimaryKey: &PrimaryKey{Columns: []string{"order_id", "product_id"}},
				ForeignKeys: []ForeignKey{
					{Columns: []string{"order_id"}, ReferencedTable: "orders", ReferencedColumns: []string{"order_id"}},
					{Columns: []string{"product_id"}, ReferencedTable: "products", ReferencedColumns: []string{"product_id"}},
				},
			},
			{
				Name: "products",
				Columns: []Column{
					{Name: "product_id", DataType: "int"},
					{Name: "product_name", DataType: "text"},
					{Name: "category_id", DataType: "int"},
					{Name: "discontinued", DataType: "flag"},
				},
				PrimaryKey: &PrimaryKey{Columns: []string{"product_id"}},
				ForeignKeys: []ForeignKey{
					{Columns: []string{"category_id"}, ReferencedTable: "categories", ReferencedColumns: []string{"category_id"}},
				},
			},
			{
				Name: "customers",
				Columns: []Column{
					{Name: "customer_id", DataType: "text"},
					{Name: "company_name", DataType: "text"},
				},
				PrimaryKey: &PrimaryKey{Columns: []string{"customer_id"}},
			},
			{Name: "employees"},
			{
				Name: "categories",
				Columns: []Column{
					{Name: "category_id", DataType: "int"},
					{Name: "category_name", DataType: "text"},
				},
				PrimaryKey: &PrimaryKey{Columns: []string{"category_id"}},
			},
			{Name: "suppliers"},
			{Name: "shippers"},
			{Name: "territories"},
			{Name: "region"},
			{Name: "us_states"},
			{Name: "employee_territories"},
		},
	}
}
