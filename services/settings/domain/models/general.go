package models

// SummableColumnsSetting names the general setting listing the work package
// list columns that may be summed.
const SummableColumnsSetting = "work_package_list_summable_columns"

// GeneralSettings are the installation-wide settings shown on the general page.
type GeneralSettings struct {
	SummableColumns []string
}
