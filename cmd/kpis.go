package main

import (
	"encoding/json"
	"fmt"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/ChrisDrivar/drivar-dashboard/internal/kpi"
	"github.com/ChrisDrivar/drivar-dashboard/internal/model"
	"github.com/ChrisDrivar/drivar-dashboard/internal/sheet"
)

var kpisFlags struct {
	country      string
	region       string
	city         string
	vehicleType  string
	manufacturer string
	radiusKm     float64
	customLat    float64
	customLng    float64
	customLabel  string
}

var kpisCmd = &cobra.Command{
	Use:   "kpis",
	Short: "Print the aggregated KPI payload for a filter",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		source, _ := newTableBackend()

		inventoryRows, err := source.FetchTable(ctx, cfg.Sheets.Inventory.Sheet, cfg.Sheets.Inventory.Range)
		if err != nil {
			return eris.Wrap(err, "fetch inventory")
		}
		inquiryRows, err := source.FetchTable(ctx, cfg.Sheets.Inquiries.Sheet, cfg.Sheets.Inquiries.Range)
		if err != nil {
			return eris.Wrap(err, "fetch inquiries")
		}
		ownerRows, err := source.FetchTable(ctx, cfg.Sheets.Owners.Sheet, cfg.Sheets.Owners.Range)
		if err != nil {
			return eris.Wrap(err, "fetch owners")
		}
		missingRows, err := source.FetchTable(ctx, cfg.Sheets.Missing.Sheet, cfg.Sheets.Missing.Range)
		if err != nil {
			return eris.Wrap(err, "fetch missing inventory")
		}
		leadRows, err := source.FetchTable(ctx, cfg.Sheets.Leads.Sheet, cfg.Sheets.Leads.Range)
		if err != nil {
			return eris.Wrap(err, "fetch pending leads")
		}

		filter := model.FilterSpec{
			Country:      kpisFlags.country,
			Region:       kpisFlags.region,
			City:         kpisFlags.city,
			VehicleType:  kpisFlags.vehicleType,
			Manufacturer: kpisFlags.manufacturer,
			RadiusKm:     kpisFlags.radiusKm,
		}
		if cmd.Flags().Changed("custom-lat") && cmd.Flags().Changed("custom-lng") {
			filter.CustomLocation = &model.CustomLocation{
				Latitude:  kpisFlags.customLat,
				Longitude: kpisFlags.customLng,
				Label:     kpisFlags.customLabel,
			}
		}

		payload := kpi.Build(
			sheet.MapInventory(inventoryRows),
			sheet.MapInquiries(inquiryRows),
			sheet.MapOwners(ownerRows),
			sheet.MapMissingInventory(missingRows),
			sheet.MapPendingLeads(leadRows),
			filter,
		)

		out, err := json.MarshalIndent(payload, "", "  ")
		if err != nil {
			return eris.Wrap(err, "marshal payload")
		}
		fmt.Println(string(out))
		return nil
	},
}

func init() {
	kpisCmd.Flags().StringVar(&kpisFlags.country, "country", "", "filter by country")
	kpisCmd.Flags().StringVar(&kpisFlags.region, "region", "", "filter by region")
	kpisCmd.Flags().StringVar(&kpisFlags.city, "city", "", "filter by city")
	kpisCmd.Flags().StringVar(&kpisFlags.vehicleType, "vehicle-type", "", "filter by vehicle type")
	kpisCmd.Flags().StringVar(&kpisFlags.manufacturer, "manufacturer", "", "filter by manufacturer")
	kpisCmd.Flags().Float64Var(&kpisFlags.radiusKm, "radius", 0, "radius filter in km")
	kpisCmd.Flags().Float64Var(&kpisFlags.customLat, "custom-lat", 0, "custom radius anchor latitude")
	kpisCmd.Flags().Float64Var(&kpisFlags.customLng, "custom-lng", 0, "custom radius anchor longitude")
	kpisCmd.Flags().StringVar(&kpisFlags.customLabel, "custom-label", "", "custom radius anchor label")
	rootCmd.AddCommand(kpisCmd)
}
