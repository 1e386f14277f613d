package periodic

// elements is indexed by atomic number minus one.
var elements = [...]Element{
	{Z: 1, Symbol: "H", Name: "Hydrogen", Mass: 1.008},
	{Z: 2, Symbol: "He", Name: "Helium", Mass: 4.0026},
	{Z: 3, Symbol: "Li", Name: "Lithium", Mass: 6.94},
	{Z: 4, Symbol: "Be", Name: "Beryllium", Mass: 9.0122},
	{Z: 5, Symbol: "B", Name: "Boron", Mass: 10.81},
	{Z: 6, Symbol: "C", Name: "Carbon", Mass: 12.011},
	{Z: 7, Symbol: "N", Name: "Nitrogen", Mass: 14.007},
	{Z: 8, Symbol: "O", Name: "Oxygen", Mass: 15.999},
	{Z: 9, Symbol: "F", Name: "Fluorine", Mass: 18.998},
	{Z: 10, Symbol: "Ne", Name: "Neon", Mass: 20.180},
	{Z: 11, Symbol: "Na", Name: "Sodium", Mass: 22.990},
	{Z: 12, Symbol: "Mg", Name: "Magnesium", Mass: 24.305},
	{Z: 13, Symbol: "Al", Name: "Aluminum", Mass: 26.982},
	{Z: 14, Symbol: "Si", Name: "Silicon", Mass: 28.085},
	{Z: 15, Symbol: "P", Name: "Phosphorus", Mass: 30.974},
	{Z: 16, Symbol: "S", Name: "Sulfur", Mass: 32.06},
	{Z: 17, Symbol: "Cl", Name: "Chlorine", Mass: 35.45},
	{Z: 18, Symbol: "Ar", Name: "Argon", Mass: 39.948},
	{Z: 19, Symbol: "K", Name: "Potassium", Mass: 39.098},
	{Z: 20, Symbol: "Ca", Name: "Calcium", Mass: 40.078},
	{Z: 21, Symbol: "Sc", Name: "Scandium", Mass: 44.956},
	{Z: 22, Symbol: "Ti", Name: "Titanium", Mass: 47.867},
	{Z: 23, Symbol: "V", Name: "Vanadium", Mass: 50.942},
	{Z: 24, Symbol: "Cr", Name: "Chromium", Mass: 51.996},
	{Z: 25, Symbol: "Mn", Name: "Manganese", Mass: 54.938},
	{Z: 26, Symbol: "Fe", Name: "Iron", Mass: 55.845},
	{Z: 27, Symbol: "Co", Name: "Cobalt", Mass: 58.933},
	{Z: 28, Symbol: "Ni", Name: "Nickel", Mass: 58.693},
	{Z: 29, Symbol: "Cu", Name: "Copper", Mass: 63.546},
	{Z: 30, Symbol: "Zn", Name: "Zinc", Mass: 65.38},
	{Z: 31, Symbol: "Ga", Name: "Gallium", Mass: 69.723},
	{Z: 32, Symbol: "Ge", Name: "Germanium", Mass: 72.630},
	{Z: 33, Symbol: "As", Name: "Arsenic", Mass: 74.922},
	{Z: 34, Symbol: "Se", Name: "Selenium", Mass: 78.971},
	{Z: 35, Symbol: "Br", Name: "Bromine", Mass: 79.904},
	{Z: 36, Symbol: "Kr", Name: "Krypton", Mass: 83.798},
	{Z: 37, Symbol: "Rb", Name: "Rubidium", Mass: 85.468},
	{Z: 38, Symbol: "Sr", Name: "Strontium", Mass: 87.62},
	{Z: 39, Symbol: "Y", Name: "Yttrium", Mass: 88.906},
	{Z: 40, Symbol: "Zr", Name: "Zirconium", Mass: 91.224},
	{Z: 41, Symbol: "Nb", Name: "Niobium", Mass: 92.906},
	{Z: 42, Symbol: "Mo", Name: "Molybdenum", Mass: 95.95},
	{Z: 43, Symbol: "Tc", Name: "Technetium", Mass: 98.0},
	{Z: 44, Symbol: "Ru", Name: "Ruthenium", Mass: 101.07},
	{Z: 45, Symbol: "Rh", Name: "Rhodium", Mass: 102.91},
	{Z: 46, Symbol: "Pd", Name: "Palladium", Mass: 106.42},
	{Z: 47, Symbol: "Ag", Name: "Silver", Mass: 107.87},
	{Z: 48, Symbol: "Cd", Name: "Cadmium", Mass: 112.41},
	{Z: 49, Symbol: "In", Name: "Indium", Mass: 114.82},
	{Z: 50, Symbol: "Sn", Name: "Tin", Mass: 118.71},
	{Z: 51, Symbol: "Sb", Name: "Antimony", Mass: 121.76},
	{Z: 52, Symbol: "Te", Name: "Tellurium", Mass: 127.60},
	{Z: 53, Symbol: "I", Name: "Iodine", Mass: 126.90},
	{Z: 54, Symbol: "Xe", Name: "Xenon", Mass: 131.29},
	{Z: 55, Symbol: "Cs", Name: "Cesium", Mass: 132.91},
	{Z: 56, Symbol: "Ba", Name: "Barium", Mass: 137.33},
	{Z: 57, Symbol: "La", Name: "Lanthanum", Mass: 138.91},
	{Z: 58, Symbol: "Ce", Name: "Cerium", Mass: 140.12},
	{Z: 59, Symbol: "Pr", Name: "Praseodymium", Mass: 140.91},
	{Z: 60, Symbol: "Nd", Name: "Neodymium", Mass: 144.24},
	{Z: 61, Symbol: "Pm", Name: "Promethium", Mass: 145.0},
	{Z: 62, Symbol: "Sm", Name: "Samarium", Mass: 150.36},
	{Z: 63, Symbol: "Eu", Name: "Europium", Mass: 151.96},
	{Z: 64, Symbol: "Gd", Name: "Gadolinium", Mass: 157.25},
	{Z: 65, Symbol: "Tb", Name: "Terbium", Mass: 158.93},
	{Z: 66, Symbol: "Dy", Name: "Dysprosium", Mass: 162.50},
	{Z: 67, Symbol: "Ho", Name: "Holmium", Mass: 164.93},
	{Z: 68, Symbol: "Er", Name: "Erbium", Mass: 167.26},
	{Z: 69, Symbol: "Tm", Name: "Thulium", Mass: 168.93},
	{Z: 70, Symbol: "Yb", Name: "Ytterbium", Mass: 173.05},
	{Z: 71, Symbol: "Lu", Name: "Lutetium", Mass: 174.97},
	{Z: 72, Symbol: "Hf", Name: "Hafnium", Mass: 178.49},
	{Z: 73, Symbol: "Ta", Name: "Tantalum", Mass: 180.95},
	{Z: 74, Symbol: "W", Name: "Tungsten", Mass: 183.84},
	{Z: 75, Symbol: "Re", Name: "Rhenium", Mass: 186.21},
	{Z: 76, Symbol: "Os", Name: "Osmium", Mass: 190.23},
	{Z: 77, Symbol: "Ir", Name: "Iridium", Mass: 192.22},
	{Z: 78, Symbol: "Pt", Name: "Platinum", Mass: 195.08},
	{Z: 79, Symbol: "Au", Name: "Gold", Mass: 196.97},
	{Z: 80, Symbol: "Hg", Name: "Mercury", Mass: 200.59},
	{Z: 81, Symbol: "Tl", Name: "Thallium", Mass: 204.38},
	{Z: 82, Symbol: "Pb", Name: "Lead", Mass: 207.2},
	{Z: 83, Symbol: "Bi", Name: "Bismuth", Mass: 208.98},
	{Z: 84, Symbol: "Po", Name: "Polonium", Mass: 209.0},
	{Z: 85, Symbol: "At", Name: "Astatine", Mass: 210.0},
	{Z: 86, Symbol: "Rn", Name: "Radon", Mass: 222.0},
	{Z: 87, Symbol: "Fr", Name: "Francium", Mass: 223.0},
	{Z: 88, Symbol: "Ra", Name: "Radium", Mass: 226.0},
	{Z: 89, Symbol: "Ac", Name: "Actinium", Mass: 227.0},
	{Z: 90, Symbol: "Th", Name: "Thorium", Mass: 232.04},
	{Z: 91, Symbol: "Pa", Name: "Protactinium", Mass: 231.04},
	{Z: 92, Symbol: "U", Name: "Uranium", Mass: 238.03},
	{Z: 93, Symbol: "Np", Name: "Neptunium", Mass: 237.0},
	{Z: 94, Symbol: "Pu", Name: "Plutonium", Mass: 244.0},
	{Z: 95, Symbol: "Am", Name: "Americium", Mass: 243.0},
	{Z: 96, Symbol: "Cm", Name: "Curium", Mass: 247.0},
	{Z: 97, Symbol: "Bk", Name: "Berkelium", Mass: 247.0},
	{Z: 98, Symbol: "Cf", Name: "Californium", Mass: 251.0},
	{Z: 99, Symbol: "Es", Name: "Einsteinium", Mass: 252.0},
	{Z: 100, Symbol: "Fm", Name: "Fermium", Mass: 257.0},
	{Z: 101, Symbol: "Md", Name: "Mendelevium", Mass: 258.0},
	{Z: 102, Symbol: "No", Name: "Nobelium", Mass: 259.0},
	{Z: 103, Symbol: "Lr", Name: "Lawrencium", Mass: 266.0},
	{Z: 104, Symbol: "Rf", Name: "Rutherfordium", Mass: 267.0},
	{Z: 105, Symbol: "Db", Name: "Dubnium", Mass: 268.0},
	{Z: 106, Symbol: "Sg", Name: "Seaborgium", Mass: 269.0},
	{Z: 107, Symbol: "Bh", Name: "Bohrium", Mass: 270.0},
	{Z: 108, Symbol: "Hs", Name: "Hassium", Mass: 269.0},
	{Z: 109, Symbol: "Mt", Name: "Meitnerium", Mass: 278.0},
	{Z: 110, Symbol: "Ds", Name: "Darmstadtium", Mass: 281.0},
	{Z: 111, Symbol: "Rg", Name: "Roentgenium", Mass: 282.0},
	{Z: 112, Symbol: "Cn", Name: "Copernicium", Mass: 285.0},
	{Z: 113, Symbol: "Nh", Name: "Nihonium", Mass: 286.0},
	{Z: 114, Symbol: "Fl", Name: "Flerovium", Mass: 289.0},
	{Z: 115, Symbol: "Mc", Name: "Moscovium", Mass: 290.0},
	{Z: 116, Symbol: "Lv", Name: "Livermorium", Mass: 293.0},
	{Z: 117, Symbol: "Ts", Name: "Tennessine", Mass: 294.0},
	{Z: 118, Symbol: "Og", Name: "Oganesson", Mass: 294.0},
}
