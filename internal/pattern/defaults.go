package pattern

// DefaultCodes returns the built-in pattern code catalog.
func DefaultCodes() []string {
	return []string{
		"CX-1E2N2E2RD", "CX-2E2N1E2RD", "PAX-GEN-2RD", "PAX-A-2RD", "EBT-3A2N2RD", "EY-1N4E2RD",
		"EY-31700N2RD", "EY-1E117001E1N1E2RD", "EY-217003E2RD", "EY-317002E2RD", "EY-2E217001E2RD",
		"UL/VN-2G2M1RD1G1RD", "PAX-3M2N2RD", "Regular Morning", "Regular Afternoon", "Regular Night",
		"PAX-EM", "PAX-M", "PAX-A", "PAX-E", "PAX-N", "SEC-MORN", "SEC-2MAN", "SEC-GEN", "SEC-GEN2",
		"CRP-GEN", "APR-M", "APR-N", "APR-1600-0000", "APR-1A3E1N2RD", "APR-AFT", "APR-1M3E1RD",
		"APR-2E1N2E2RD", "APR-2E1RD3E1RD", "APR-2M2A1E1N2RD", "APR-2M2A1N1E2RD", "APR-2M2A2E2RD",
		"APR-2M2A2N2RD", "APR-2M2E2N2RD", "APR-2M3E2RD", "APR-3G1M2G1RD", "APR-3M2E2RD", "APR-E",
		"Pax-Gen", "PAX-1M4E2RD", "PAX-2M1A2N2RD", "PAX-2M2E1N2RD", "PAX-2M3N2RD", "PAX-2A3E2RD",
		"EK-2M1A2E2RD", "PAX-2M3E2RD", "PAX-E-EY", "PAX-2E3N2RD", "ALL MORNINGS", "3 MORNING 3 AFTERNOON",
		"pcc-gen", "EK-2M3E2RD", "2M2E1N2RD", "EK-3M1E1N2RD", "EK-3M1N1E2RD", "EK-3M2E2RD", "IX-EM",
		"IX1300-2100", "IX1300-2200", "ALL NIGHTS", "2A3N2RD", "EY-1700-0230", "EBT-1m5a1rd",
		"DD-2E1N1E1RD1E1RD", "UL-1G2M1G2M1RD", "UL-2M1G1M2G1RD", "UL-1G1M2G2M1RD", "XY-1EM1M2EM1M1EM1RD",
		"1EM1M1EM1M2EM1RD", "SEC-3G2A1RD", "3A1E1N2RD", "3A2E2RD", "EY-1200-2000-", "MHB-1A1E1A2N2RD",
		"MHB-1M1A1E2N2RD", "MHB-2M2A2M1RD", "MHB-3M3G1RD", "MHB-2G3E2RD", "MHB-3M1G2M1RD", "MHB-1A2M1E1N2RD",
		"MHB-1A4N2RD", "MHB-2A2E1N2RD", "EK-5M1A1RD", "EY-1E117001E2N2RD", "SQ-4M2E1RD", "SQ-5M1E1RD",
		"SV-2G2M1G1M1RD", "SV-1G4M1G1RD", "SV-5M1G1RD",
	}
}
