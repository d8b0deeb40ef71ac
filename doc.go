// Package reportes renders uploaded spreadsheets as printable PDF reports.
//
// Two layouts are available. The bonus report (Bonos) groups rows by group
// and guide in the order they first appear and prints one landscape table row
// per five bonuses, with the group's attendance and total on its first row and
// a grand total at the end. The anniversary report (Aniversarios) groups people
// by years celebrated and flows the lists through four columns per page.
//
// A Generator validates the input columns, normalizes amounts and names, and
// draws the report on a canvas:
//
//	tbl, err := ingest.Read(file, ingest.CSV)
//	if err != nil {
//		return err
//	}
//	res, err := reportes.NewGenerator().Generate(ctx, reportes.Bonos, tbl)
//	if err != nil {
//		return err
//	}
//	os.WriteFile(res.Filename, res.PDF, 0o644)
//
// Values that cannot be read never stop a render. Amounts become zero and are
// counted in Result.Degraded; anniversary rows without a readable year are
// left out and counted in Result.Rejected.
package reportes
